package httpserver

import (
	"net/http"

	"serviceease/internal/logger"
	"serviceease/internal/service/account"

	"github.com/gin-gonic/gin"
)

type accountHandlers struct {
	svc *account.Service
	log *logger.Logger
}

func (h *accountHandlers) register(c *gin.Context) {
	var in account.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *accountHandlers) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	token, u, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": token, "user": u})
}

func (h *accountHandlers) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *accountHandlers) getUser(c *gin.Context) {
	u, err := h.svc.GetUser(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *accountHandlers) updateUser(c *gin.Context) {
	var in account.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.svc.UpdateUser(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *accountHandlers) deleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandlers) getProfile(c *gin.Context) {
	p, err := h.svc.GetProfile(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *accountHandlers) updateProfile(c *gin.Context) {
	var in account.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.svc.UpdateProfile(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *accountHandlers) getMyProfile(c *gin.Context) {
	me := principalFrom(c)
	p, err := h.svc.GetProfile(c.Request.Context(), me, me.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *accountHandlers) updateMyProfile(c *gin.Context) {
	var in account.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	me := principalFrom(c)
	p, err := h.svc.UpdateProfile(c.Request.Context(), me, me.ID, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *accountHandlers) deleteProfile(c *gin.Context) {
	if err := h.svc.DeleteProfile(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
