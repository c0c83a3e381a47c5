package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/repository"
	"fitcollab/fitness-app/internal/storage"

	"github.com/google/uuid" // For generating unique object keys
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileUpdate carries the submitted values of the tracked profile scalars.
type ProfileUpdate struct {
	Name      string
	Email     string
	Street    string
	Number    string
	ZipCode   string
	City      string
	State     string
	Sex       string
	Phone     string
	BirthDate string
}

// PhotoUploadResponse returns the presigned URL and the key the client must
// report back on confirm.
type PhotoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// UserService covers profile, history and weight-record use cases.
type UserService interface {
	GetUser(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID, submitted ProfileUpdate) (*domain.User, []domain.HistoryEvent, error)
	ListHistory(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) ([]domain.HistoryEvent, error)

	AddWeightRecord(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID, weight float64, bf *float64, date time.Time) (*domain.WeightRecord, error)
	ListWeightRecords(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) ([]domain.WeightRecord, error)

	RequestProgressPhotoUploadURL(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID, recordID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error)
	ConfirmProgressPhoto(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID, recordID primitive.ObjectID, objectKey string) error
	GetProgressPhotoURL(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID, recordID primitive.ObjectID) (string, error)

	ListUsers(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role) ([]domain.User, error)
	DeleteUser(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) error
}

// userService implements the UserService interface.
type userService struct {
	users       repository.UserRepository
	weights     repository.WeightRecordRepository
	history     repository.HistoryRepository
	authorizer  *Authorizer
	tx          repository.TxRunner
	fileStorage storage.FileStorage
}

// NewUserService creates a new instance of userService.
func NewUserService(
	users repository.UserRepository,
	weights repository.WeightRecordRepository,
	history repository.HistoryRepository,
	authorizer *Authorizer,
	tx repository.TxRunner,
	fileStorage storage.FileStorage,
) UserService {
	return &userService{
		users:       users,
		weights:     weights,
		history:     history,
		authorizer:  authorizer,
		tx:          tx,
		fileStorage: fileStorage,
	}
}

// GetUser returns the user with CurrentWeight derived from the latest
// weight record.
func (s *userService) GetUser(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) (*domain.User, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, userID, ActionViewProfile); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, ErrNotFound("user_not_found", "user does not exist"))
	}
	user.PasswordHash = ""

	latest, err := s.weights.LatestByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInfrastructure(err)
		}
		// No measurements yet; CurrentWeight stays unset.
	} else {
		user.CurrentWeight = &latest.Weight
	}
	return user, nil
}

// UpdateProfile replaces the tracked profile scalars and records one audit
// event per changed field. The profile write and the events commit in the
// same transaction, or not at all.
func (s *userService) UpdateProfile(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID, submitted ProfileUpdate) (*domain.User, []domain.HistoryEvent, error) {
	existing, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, mapRepoErr(err, ErrNotFound("user_not_found", "user does not exist"))
	}
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, userID, ActionEditProfile); err != nil {
		return nil, nil, err
	}

	updated := *existing
	updated.Name = submitted.Name
	updated.Email = submitted.Email
	updated.Street = submitted.Street
	updated.Number = submitted.Number
	updated.ZipCode = submitted.ZipCode
	updated.City = submitted.City
	updated.State = submitted.State
	updated.Sex = submitted.Sex
	updated.Phone = submitted.Phone
	updated.BirthDate = submitted.BirthDate

	messages := DiffProfile(existing, &updated)

	now := time.Now().UTC()
	events := make([]domain.HistoryEvent, 0, len(messages))
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.users.UpdateProfile(txCtx, &updated); err != nil {
			return err
		}
		for _, msg := range messages {
			event := domain.HistoryEvent{UserID: userID, Event: msg, Date: now}
			if _, err := s.history.Append(txCtx, &event); err != nil {
				return err
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound("user_not_found", "user does not exist")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrConflict("email_taken", "email is already in use")
		}
		return nil, nil, ErrInfrastructure(err)
	}

	updated.PasswordHash = ""
	return &updated, events, nil
}

// ListHistory returns the user's audit timeline.
func (s *userService) ListHistory(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) ([]domain.HistoryEvent, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, userID, ActionViewHistory); err != nil {
		return nil, err
	}
	events, err := s.history.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	return events, nil
}

// === Weight records ===

// AddWeightRecord creates one measurement for userID. Records are immutable
// after creation apart from the progress photo link.
func (s *userService) AddWeightRecord(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID, weight float64, bf *float64, date time.Time) (*domain.WeightRecord, error) {
	if weight <= 0 {
		return nil, ErrValidation("invalid_weight", "weight must be positive")
	}
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, userID, ActionRecordWeight); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapRepoErr(err, ErrNotFound("user_not_found", "user does not exist"))
	}

	record := &domain.WeightRecord{
		UserID: userID,
		Weight: weight,
		BF:     bf,
		Date:   date,
	}
	if _, err := s.weights.Create(ctx, record); err != nil {
		return nil, ErrInfrastructure(err)
	}
	return record, nil
}

// ListWeightRecords returns the user's measurements, newest first.
func (s *userService) ListWeightRecords(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) ([]domain.WeightRecord, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, userID, ActionViewProfile); err != nil {
		return nil, err
	}
	records, err := s.weights.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	return records, nil
}

// === Progress photos ===

// RequestProgressPhotoUploadURL generates a presigned PUT URL for attaching
// a progress photo to a weight record.
func (s *userService) RequestProgressPhotoUploadURL(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID, recordID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrValidation("invalid_content_type", "progress photos must be images")
	}
	record, err := s.ownedWeightRecord(ctx, actorID, actorRole, userID, recordID)
	if err != nil {
		return nil, err
	}

	ext := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	objectKey := path.Join("progress", userID.Hex(), record.ID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	return &PhotoUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmProgressPhoto links an uploaded photo to the record. Called after
// the client PUT the file to storage using the presigned URL.
func (s *userService) ConfirmProgressPhoto(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID, recordID primitive.ObjectID, objectKey string) error {
	if objectKey == "" {
		return ErrValidation("missing_object_key", "object key is required")
	}
	record, err := s.ownedWeightRecord(ctx, actorID, actorRole, userID, recordID)
	if err != nil {
		return err
	}
	if err := s.weights.SetPhotoObjectKey(ctx, record.ID, objectKey); err != nil {
		return mapRepoErr(err, ErrNotFound("record_not_found", "weight record does not exist"))
	}
	if record.PhotoObjectKey != "" && record.PhotoObjectKey != objectKey {
		// Best effort: an orphaned object is preferable to failing the confirm.
		_ = s.fileStorage.DeleteObject(ctx, record.PhotoObjectKey)
	}
	return nil
}

// GetProgressPhotoURL returns a temporary download URL for the photo.
func (s *userService) GetProgressPhotoURL(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID, recordID primitive.ObjectID) (string, error) {
	record, err := s.ownedWeightRecord(ctx, actorID, actorRole, userID, recordID)
	if err != nil {
		return "", err
	}
	if record.PhotoObjectKey == "" {
		return "", ErrNotFound("photo_not_found", "weight record has no progress photo")
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, record.PhotoObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrInfrastructure(err)
	}
	return url, nil
}

func (s *userService) ownedWeightRecord(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID, recordID primitive.ObjectID) (*domain.WeightRecord, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, userID, ActionRecordWeight); err != nil {
		return nil, err
	}
	record, err := s.weights.GetByID(ctx, recordID)
	if err != nil {
		return nil, mapRepoErr(err, ErrNotFound("record_not_found", "weight record does not exist"))
	}
	if record.UserID != userID {
		return nil, ErrNotFound("record_not_found", "weight record does not exist")
	}
	return record, nil
}

// === Admin ===

// ListUsers is restricted to administrators.
func (s *userService) ListUsers(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role) ([]domain.User, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, actorID, ActionListUsers); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// DeleteUser is restricted to administrators.
func (s *userService) DeleteUser(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, userID primitive.ObjectID) error {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, userID, ActionDeleteUser); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return mapRepoErr(err, ErrNotFound("user_not_found", "user does not exist"))
	}
	return nil
}
