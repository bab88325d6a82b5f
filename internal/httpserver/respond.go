package httpserver

import (
	"errors"
	"net/http"

	"serviceease/internal/domain"
	"serviceease/internal/logger"
	"serviceease/internal/service/account"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto HTTP responses. Validation failures
// keep the field-keyed shape clients already parse.
func writeError(c *gin.Context, log *logger.Logger, err error) {
	if verr, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{verr.Field: []string{verr.Msg}})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"detail": "already exists"})
	case errors.Is(err, domain.ErrExternal):
		log.Error("gateway call failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": "payment gateway unavailable"})
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid credentials"})
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": msg})
}
