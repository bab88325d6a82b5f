package httpserver

import (
	"net/http"

	"serviceease/internal/logger"
	"serviceease/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type paymentHandlers struct {
	svc         *payment.Service
	frontendURL string
	log         *logger.Logger
}

func (h *paymentHandlers) initiate(c *gin.Context) {
	url, err := h.svc.Initiate(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect_url": url})
}

// success is hit by the gateway's browser redirect after payment. The
// customer lands back on the frontend whatever happens; the order flip is
// what matters.
func (h *paymentHandlers) success(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	if _, err := h.svc.HandleSuccess(c.Request.Context(), tranID); err != nil {
		h.log.Warn("payment success callback rejected", "tran_id", tranID, "error", err)
		c.Redirect(http.StatusFound, h.frontendURL+"/payment/failed")
		return
	}
	c.Redirect(http.StatusFound, h.frontendURL+"/payment/success")
}

func (h *paymentHandlers) fail(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	if err := h.svc.HandleFailure(c.Request.Context(), tranID); err != nil {
		h.log.Warn("payment fail callback rejected", "tran_id", tranID, "error", err)
	}
	c.Redirect(http.StatusFound, h.frontendURL+"/payment/failed")
}

func (h *paymentHandlers) cancel(c *gin.Context) {
	tranID := c.PostForm("tran_id")
	if err := h.svc.HandleFailure(c.Request.Context(), tranID); err != nil {
		h.log.Warn("payment cancel callback rejected", "tran_id", tranID, "error", err)
	}
	c.Redirect(http.StatusFound, h.frontendURL+"/payment/cancelled")
}
