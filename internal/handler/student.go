package handler

import (
	"net/http"
	"strconv"

	"github.com/classboard/gateway/internal/middleware"
	"github.com/classboard/gateway/internal/repository"
	"github.com/classboard/gateway/internal/response"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	repo *repository.StudentRepository
}

func NewStudentHandler(repo *repository.StudentRepository) *StudentHandler {
	return &StudentHandler{repo: repo}
}

// List returns the students in the caller's accessible classes. The pipeline
// resolved the class id set before this handler runs.
func (h *StudentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	ids, all := middleware.AccessibleClasses(c)

	if all {
		result, err := h.repo.List(ctx)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list students")
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := h.repo.ListByClasses(ctx, ids)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list students")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *StudentHandler) Get(c *gin.Context) {
	sid, err := strconv.ParseInt(c.Param("sid"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "Invalid student id")
		return
	}

	ctx := c.Request.Context()
	student, err := h.repo.FindByID(ctx, sid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load student")
		return
	}

	if student == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Student not found")
		return
	}

	c.JSON(http.StatusOK, student)
}
