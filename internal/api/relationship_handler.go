// internal/api/relationship_handler.go
package api

import (
	"fmt"
	"net/http"

	"fitcollab/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipHandler serves the professional's student roster.
type RelationshipHandler struct {
	relationshipService service.RelationshipService
}

func NewRelationshipHandler(relationshipService service.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relationshipService: relationshipService}
}

type AddStudentRequest struct {
	StudentEmail string `json:"studentEmail" binding:"required,email"`
}

// AddStudentByEmail links an existing student to the authenticated professional.
func (h *RelationshipHandler) AddStudentByEmail(c *gin.Context) {
	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	student, err := h.relationshipService.AddStudentByEmail(c.Request.Context(), actorID, role, req.StudentEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(student))
}

// GetStudents lists the professional's actively assigned students.
func (h *RelationshipHandler) GetStudents(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	students, err := h.relationshipService.GetStudents(c.Request.Context(), actorID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	if students == nil {
		c.JSON(http.StatusOK, []UserResponse{})
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(students))
}

// EndRelationship marks an edge as ended.
func (h *RelationshipHandler) EndRelationship(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	relationshipID, err := primitive.ObjectIDFromHex(c.Param("relationshipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid relationship ID format.")
		return
	}

	if err := h.relationshipService.EndRelationship(c.Request.Context(), actorID, role, relationshipID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
