// internal/api/user_handler.go
package api

import (
	"fmt"
	"net/http"
	"time"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler serves profile, history, weight-record and admin endpoints.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- DTOs ---

type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Street    string `json:"street"`
	Number    string `json:"number"`
	ZipCode   string `json:"zipCode"`
	City      string `json:"city"`
	State     string `json:"state"`
	Sex       string `json:"sex"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
}

type AddWeightRecordRequest struct {
	Weight float64    `json:"weight" binding:"required,gt=0"`
	BF     *float64   `json:"bf"`
	Date   *time.Time `json:"date"`
}

type RequestPhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Profile ---

// GetUser returns a user's profile with the derived current weight.
func (h *UserHandler) GetUser(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), actorID, role, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile replaces the tracked profile scalars and records one history
// event per changed field.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, events, err := h.userService.UpdateProfile(c.Request.Context(), actorID, role, userID, service.ProfileUpdate{
		Name:      req.Name,
		Email:     req.Email,
		Street:    req.Street,
		Number:    req.Number,
		ZipCode:   req.ZipCode,
		City:      req.City,
		State:     req.State,
		Sex:       req.Sex,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": MapUserToResponse(user), "events": events})
}

// GetHistory returns the user's audit timeline, newest first.
func (h *UserHandler) GetHistory(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	events, err := h.userService.ListHistory(c.Request.Context(), actorID, role, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = []domain.HistoryEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// --- Weight records ---

// AddWeightRecord stores a new measurement for the user.
func (h *UserHandler) AddWeightRecord(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	var req AddWeightRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	record, err := h.userService.AddWeightRecord(c.Request.Context(), actorID, role, userID, req.Weight, req.BF, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetWeightRecords lists the user's measurements, newest first.
func (h *UserHandler) GetWeightRecords(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	records, err := h.userService.ListWeightRecords(c.Request.Context(), actorID, role, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []domain.WeightRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// --- Progress photos ---

// RequestPhotoUploadURL returns a presigned PUT URL for a progress photo.
func (h *UserHandler) RequestPhotoUploadURL(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}
	recordID, err := primitive.ObjectIDFromHex(c.Param("recordId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight record ID format.")
		return
	}

	var req RequestPhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.userService.RequestProgressPhotoUploadURL(c.Request.Context(), actorID, role, userID, recordID, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPhoto links the uploaded photo to the weight record.
func (h *UserHandler) ConfirmPhoto(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}
	recordID, err := primitive.ObjectIDFromHex(c.Param("recordId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight record ID format.")
		return
	}

	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.userService.ConfirmProgressPhoto(c.Request.Context(), actorID, role, userID, recordID, req.ObjectKey); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPhotoURL returns a temporary download URL for the record's photo.
func (h *UserHandler) GetPhotoURL(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}
	recordID, err := primitive.ObjectIDFromHex(c.Param("recordId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight record ID format.")
		return
	}

	url, err := h.userService.GetProgressPhotoURL(c.Request.Context(), actorID, role, userID, recordID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// --- Admin ---

// ListUsers returns every account. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actorID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

// DeleteUser removes an account. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actorID, role, err := getActorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), actorID, role, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
