// internal/api/plan_handler.go
package api

import (
	"fmt"
	"net/http"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler serves the training week and diet aggregates plus the
// completion endpoints.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// ChangeSummary reports what the reconciler derived from a submission.
type ChangeSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

func summarize(cs *service.ChangeSet) ChangeSummary {
	return ChangeSummary{
		Created: len(cs.ToCreate),
		Updated: len(cs.ToUpdate),
		Deleted: len(cs.ToDelete),
	}
}

// --- Training weeks ---

type SaveTrainingWeekResponse struct {
	Week    *domain.TrainingWeek `json:"week"`
	Changes ChangeSummary        `json:"changes"`
}

// SaveTrainingWeek accepts the entire week subtree; nodes without ids are
// created, nodes matching persisted ids are updated, persisted nodes
// missing from the submission are deleted.
func (h *PlanHandler) SaveTrainingWeek(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	var submitted domain.TrainingWeek
	if err := c.ShouldBindJSON(&submitted); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	week, cs, err := h.planService.SaveTrainingWeek(c.Request.Context(), actorID, role, ownerID, &submitted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SaveTrainingWeekResponse{Week: week, Changes: summarize(cs)})
}

// GetTrainingWeeks lists the owner's training weeks.
func (h *PlanHandler) GetTrainingWeeks(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	weeks, err := h.planService.GetTrainingWeeks(c.Request.Context(), actorID, role, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if weeks == nil {
		weeks = []domain.TrainingWeek{}
	}
	c.JSON(http.StatusOK, weeks)
}

// DeleteTrainingWeek removes one aggregate with its whole subtree.
func (h *PlanHandler) DeleteTrainingWeek(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	weekID, err := primitive.ObjectIDFromHex(c.Param("weekId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid training week ID format.")
		return
	}

	if err := h.planService.DeleteTrainingWeek(c.Request.Context(), actorID, role, weekID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Diets ---

type SaveDietResponse struct {
	Diet    *domain.Diet  `json:"diet"`
	Changes ChangeSummary `json:"changes"`
}

// SaveDiet mirrors SaveTrainingWeek for the diet tree.
func (h *PlanHandler) SaveDiet(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	var submitted domain.Diet
	if err := c.ShouldBindJSON(&submitted); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	diet, cs, err := h.planService.SaveDiet(c.Request.Context(), actorID, role, ownerID, &submitted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SaveDietResponse{Diet: diet, Changes: summarize(cs)})
}

// GetDiets lists the owner's diets.
func (h *PlanHandler) GetDiets(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	diets, err := h.planService.GetDiets(c.Request.Context(), actorID, role, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if diets == nil {
		diets = []domain.Diet{}
	}
	c.JSON(http.StatusOK, diets)
}

// DeleteDiet removes one diet aggregate.
func (h *PlanHandler) DeleteDiet(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	dietID, err := primitive.ObjectIDFromHex(c.Param("dietId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid diet ID format.")
		return
	}

	if err := h.planService.DeleteDiet(c.Request.Context(), actorID, role, dietID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Completion ---

// CompleteExercise marks one exercise as done. Calling it again on a done
// exercise returns the same state.
func (h *PlanHandler) CompleteExercise(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	exercise, err := h.planService.CompleteExercise(c.Request.Context(), actorID, role, exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// CompleteMeal marks one meal as done and records the owner's history event.
func (h *PlanHandler) CompleteMeal(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	mealID, err := primitive.ObjectIDFromHex(c.Param("mealId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid meal ID format.")
		return
	}

	meal, err := h.planService.CompleteMeal(c.Request.Context(), actorID, role, mealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}
