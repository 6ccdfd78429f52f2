package handler

import (
	"net/http"

	"github.com/classboard/gateway/internal/models"
	"github.com/classboard/gateway/internal/response"
	"github.com/classboard/gateway/internal/service"
	"github.com/gin-gonic/gin"
)

// ConfigHandler is the administrative CRUD surface over rate_limit_config.
// The service invalidates the policy cache after every successful mutation.
type ConfigHandler struct {
	service *service.ConfigService
}

func NewConfigHandler(service *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

func (h *ConfigHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	configs, err := h.service.List(ctx)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list rate limit configs")
		return
	}

	c.JSON(http.StatusOK, configs)
}

func (h *ConfigHandler) Get(c *gin.Context) {
	key := c.Param("key")

	ctx := c.Request.Context()
	config, err := h.service.Get(ctx, key)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load rate limit config")
		return
	}

	if config == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Rate limit config not found")
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *ConfigHandler) Create(c *gin.Context) {
	var req struct {
		Key         string `json:"key" binding:"required"`
		WindowMs    int64  `json:"window_ms" binding:"required,gt=0"`
		MaxRequests int    `json:"max_requests" binding:"required,gt=0"`
		Description string `json:"description"`
		Enabled     *bool  `json:"enabled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	config := models.RateLimitConfig{
		Key:         req.Key,
		WindowMs:    req.WindowMs,
		MaxRequests: req.MaxRequests,
		Description: req.Description,
		Enabled:     enabled,
	}

	ctx := c.Request.Context()
	if err := h.service.Create(ctx, &config); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create rate limit config")
		return
	}

	c.JSON(http.StatusCreated, config)
}

func (h *ConfigHandler) Update(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		WindowMs    *int64  `json:"window_ms"`
		MaxRequests *int    `json:"max_requests"`
		Description *string `json:"description"`
		Enabled     *bool   `json:"enabled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	// Build updates map
	updates := make(map[string]interface{})
	if req.WindowMs != nil {
		updates["window_ms"] = *req.WindowMs
	}
	if req.MaxRequests != nil {
		updates["max_requests"] = *req.MaxRequests
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}

	if len(updates) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "No fields to update")
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Update(ctx, key, updates); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update rate limit config")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *ConfigHandler) Delete(c *gin.Context) {
	key := c.Param("key")

	ctx := c.Request.Context()
	if err := h.service.Delete(ctx, key); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete rate limit config")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
