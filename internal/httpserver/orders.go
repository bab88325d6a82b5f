package httpserver

import (
	"errors"
	"io"
	"net/http"

	"serviceease/internal/logger"
	"serviceease/internal/service/order"

	"github.com/gin-gonic/gin"
)

type orderHandlers struct {
	svc *order.Service
	log *logger.Logger
}

func (h *orderHandlers) list(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *orderHandlers) checkout(c *gin.Context) {
	// An empty body is a valid checkout for the caller's own cart.
	var in order.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}
	o, err := h.svc.Checkout(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *orderHandlers) get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *orderHandlers) update(c *gin.Context) {
	// An empty PATCH is a no-op, not a client error.
	var in order.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}
	o, err := h.svc.Update(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *orderHandlers) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *orderHandlers) addLine(c *gin.Context) {
	var in order.AddLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	line, err := h.svc.AddLine(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *orderHandlers) listItems(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o.Lines)
}

func (h *orderHandlers) addItem(c *gin.Context) {
	var in order.AddLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	in.Order = c.Param("id")
	line, err := h.svc.AddLine(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *orderHandlers) getLine(c *gin.Context) {
	line, err := h.svc.GetLine(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *orderHandlers) deleteLine(c *gin.Context) {
	if err := h.svc.DeleteLine(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
