package httpserver

import (
	"net/http"

	"serviceease/internal/logger"
	"serviceease/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type catalogHandlers struct {
	svc *catalog.Service
	log *logger.Logger
}

func (h *catalogHandlers) listCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *catalogHandlers) getCategory(c *gin.Context) {
	cat, err := h.svc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *catalogHandlers) categoryServices(c *gin.Context) {
	services, err := h.svc.CategoryServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *catalogHandlers) createCategory(c *gin.Context) {
	var in catalog.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *catalogHandlers) updateCategory(c *gin.Context) {
	var in catalog.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *catalogHandlers) deleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *catalogHandlers) listServices(c *gin.Context) {
	services, err := h.svc.ListServices(c.Request.Context(), catalog.ListInput{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Category: c.Query("category"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *catalogHandlers) getService(c *gin.Context) {
	svc, err := h.svc.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *catalogHandlers) createService(c *gin.Context) {
	var in catalog.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	svc, err := h.svc.CreateService(c.Request.Context(), principalFrom(c), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *catalogHandlers) updateService(c *gin.Context) {
	var in catalog.UpdateServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	svc, err := h.svc.UpdateService(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *catalogHandlers) deleteService(c *gin.Context) {
	if err := h.svc.DeleteService(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
