package handler

import (
	"errors"
	"net/http"

	"github.com/classboard/gateway/internal/response"
	"github.com/classboard/gateway/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	token, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Invalid credentials")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
