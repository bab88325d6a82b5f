package httpserver

import (
	"net/http"

	"serviceease/internal/logger"
	"serviceease/internal/service/review"

	"github.com/gin-gonic/gin"
)

type reviewHandlers struct {
	svc *review.Service
	log *logger.Logger
}

func (h *reviewHandlers) list(c *gin.Context) {
	reviews, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *reviewHandlers) listByService(c *gin.Context) {
	reviews, err := h.svc.ListByService(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *reviewHandlers) listByUser(c *gin.Context) {
	reviews, err := h.svc.ListByUser(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *reviewHandlers) get(c *gin.Context) {
	rev, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (h *reviewHandlers) create(c *gin.Context) {
	var in review.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	rev, err := h.svc.Create(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

func (h *reviewHandlers) update(c *gin.Context) {
	var in review.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	rev, err := h.svc.Update(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (h *reviewHandlers) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
