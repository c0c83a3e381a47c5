package api

import (
	"net/http"

	"fitcollab/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the wire deterministically:
// Forbidden/NotAssigned -> 403, NotFound -> 404, Validation -> 400,
// Conflict -> 409, anything unmapped -> 500. The response carries the stable
// reason code, never internal detail.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case service.KindForbidden, service.KindNotAssigned:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindConflict:
		status = http.StatusConflict
	}

	code := service.CodeOf(err)
	if status == http.StatusInternalServerError {
		// Infrastructure detail stays server-side.
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error", "code": "internal"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}
