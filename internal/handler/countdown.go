package handler

import (
	"net/http"
	"strconv"

	"github.com/classboard/gateway/internal/middleware"
	"github.com/classboard/gateway/internal/repository"
	"github.com/classboard/gateway/internal/response"
	"github.com/classboard/gateway/internal/service"
	"github.com/gin-gonic/gin"
)

type CountdownHandler struct {
	repo   *repository.CountdownRepository
	access *service.AccessService
}

func NewCountdownHandler(repo *repository.CountdownRepository, access *service.AccessService) *CountdownHandler {
	return &CountdownHandler{repo: repo, access: access}
}

// List serves both authenticated admins and anonymous display boards.
// Authenticated callers get their accessible classes; anonymous callers must
// name a single class via ?cid=.
func (h *CountdownHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if identity, ok := middleware.Identity(c); ok {
		ids, all, err := h.access.AccessibleClassIDs(ctx, identity)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Authorization check failed")
			return
		}

		if all {
			result, err := h.repo.List(ctx)
			if err != nil {
				response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list countdowns")
				return
			}
			c.JSON(http.StatusOK, result)
			return
		}

		result, err := h.repo.ListByClasses(ctx, ids)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list countdowns")
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	cid, err := strconv.ParseInt(c.Query("cid"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "cid query parameter required")
		return
	}

	result, err := h.repo.ListByClasses(ctx, []int64{cid})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list countdowns")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CountdownHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Invalid countdown id")
		return
	}

	ctx := c.Request.Context()
	countdown, err := h.repo.FindByID(ctx, id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load countdown")
		return
	}

	if countdown == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Countdown not found")
		return
	}

	c.JSON(http.StatusOK, countdown)
}
