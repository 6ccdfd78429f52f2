package middleware

import (
	"net/http"
	"strconv"

	"github.com/classboard/gateway/internal/response"
	"github.com/classboard/gateway/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	classIDsKey   = "class_ids"
	allClassesKey = "all_classes"
)

// AccessibleClasses returns the class id set resolved for the request.
// all=true means no filtering (superadmin).
func AccessibleClasses(c *gin.Context) (ids []int64, all bool) {
	if v, exists := c.Get(allClassesKey); exists {
		all, _ = v.(bool)
	}
	if v, exists := c.Get(classIDsKey); exists {
		ids, _ = v.([]int64)
	}
	return ids, all
}

// RequireSuperAdmin gates administrative routes.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthenticated,
				"Authentication required")
			return
		}

		if !identity.IsSuperAdmin() {
			response.AbortError(c, http.StatusForbidden, response.CodeForbidden,
				"Superadmin role required")
			return
		}

		c.Next()
	}
}

// RequireClassAccess checks the caller against the class id in the named
// route parameter.
func RequireClassAccess(access *service.AccessService, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthenticated,
				"Authentication required")
			return
		}

		cid, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			response.AbortError(c, http.StatusBadRequest, response.CodeBadRequest,
				"Invalid class id")
			return
		}

		granted, err := access.HasClassAccess(c.Request.Context(), identity, cid)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, response.CodeInternal,
				"Authorization check failed")
			return
		}

		if !granted {
			response.AbortError(c, http.StatusForbidden, response.CodeForbidden,
				"No access to this class")
			return
		}

		c.Next()
	}
}

// WithAccessibleClasses resolves and attaches the caller's class id set for
// list handlers to filter by.
func WithAccessibleClasses(access *service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthenticated,
				"Authentication required")
			return
		}

		ids, all, err := access.AccessibleClassIDs(c.Request.Context(), identity)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, response.CodeInternal,
				"Authorization check failed")
			return
		}

		c.Set(classIDsKey, ids)
		c.Set(allClassesKey, all)

		c.Next()
	}
}

type derivedCheck func(c *gin.Context, identity *service.CallerIdentity, id int64) (granted, found bool, err error)

// requireDerivedAccess resolves a record's owning class and delegates to the
// class check. A missing record is not a denial: the handler's own not-found
// response must win, so the chain continues.
func requireDerivedAccess(param string, check derivedCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthenticated,
				"Authentication required")
			return
		}

		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			response.AbortError(c, http.StatusBadRequest, response.CodeBadRequest,
				"Invalid id")
			return
		}

		granted, found, err := check(c, identity, id)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, response.CodeInternal,
				"Authorization check failed")
			return
		}

		if found && !granted {
			response.AbortError(c, http.StatusForbidden, response.CodeForbidden,
				"No access to this resource")
			return
		}

		c.Next()
	}
}

func RequireStudentAccess(access *service.AccessService, param string) gin.HandlerFunc {
	return requireDerivedAccess(param, func(c *gin.Context, identity *service.CallerIdentity, id int64) (bool, bool, error) {
		return access.HasStudentAccess(c.Request.Context(), identity, id)
	})
}

func RequireCountdownAccess(access *service.AccessService, param string) gin.HandlerFunc {
	return requireDerivedAccess(param, func(c *gin.Context, identity *service.CallerIdentity, id int64) (bool, bool, error) {
		return access.HasCountdownAccess(c.Request.Context(), identity, id)
	})
}
