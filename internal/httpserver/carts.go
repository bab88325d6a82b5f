package httpserver

import (
	"net/http"

	"serviceease/internal/domain"
	"serviceease/internal/logger"
	"serviceease/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type cartHandlers struct {
	svc *cart.Service
	log *logger.Logger
}

// cartResponse augments the cart with its computed totals.
type cartResponse struct {
	domain.Cart
	TotalPrice    string `json:"total_price"`
	TotalDuration string `json:"total_duration"`
}

func toCartResponse(c domain.Cart) cartResponse {
	return cartResponse{
		Cart:          c,
		TotalPrice:    c.TotalPrice().StringFixed(2),
		TotalDuration: c.TotalDuration().String(),
	}
}

func (h *cartHandlers) list(c *gin.Context) {
	carts, err := h.svc.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]cartResponse, 0, len(carts))
	for _, ct := range carts {
		out = append(out, toCartResponse(ct))
	}
	c.JSON(http.StatusOK, out)
}

func (h *cartHandlers) getOrCreate(c *gin.Context) {
	ct, created, err := h.svc.GetOrCreate(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toCartResponse(*ct))
}

func (h *cartHandlers) get(c *gin.Context) {
	ct, err := h.svc.Get(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(*ct))
}

func (h *cartHandlers) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *cartHandlers) addLine(c *gin.Context) {
	var in cart.AddLineInput
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

func (h *cartHandlers) listItems(c *gin.Context) {
	ct, err := h.svc.Get(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ct.Lines)
}

func (h *cartHandlers) addItem(c *gin.Context) {
	var in cart.AddLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	in.Cart = c.Param("id")
	line, err := h.svc.AddLine(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *cartHandlers) getLine(c *gin.Context) {
	line, err := h.svc.GetLine(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *cartHandlers) updateLine(c *gin.Context) {
	var in updateLineRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	line, err := h.svc.SetLineQuantity(c.Request.Context(), principalFrom(c), c.Param("id"), in.Quantity)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *cartHandlers) deleteLine(c *gin.Context) {
	if err := h.svc.DeleteLine(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
