package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcollab/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userFixture struct {
	svc     UserService
	users   *memUserRepo
	weights *memWeightRepo
	history *memHistoryRepo
	rels    *memRelationshipRepo
}

func newUserFixture() *userFixture {
	users := newMemUserRepo()
	weights := newMemWeightRepo()
	history := newMemHistoryRepo()
	rels := newMemRelationshipRepo()
	return &userFixture{
		svc:     NewUserService(users, weights, history, NewAuthorizer(rels), memTx{}, fakeStorage{}),
		users:   users,
		weights: weights,
		history: history,
		rels:    rels,
	}
}

func (f *userFixture) addUser(t *testing.T, name, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: email, Role: role, PasswordHash: "hash"}
	_, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestGetUser_DerivesCurrentWeightFromLatestRecord(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	got, err := f.svc.GetUser(ctx, user.ID, domain.RoleStudent, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentWeight)

	older := &domain.WeightRecord{UserID: user.ID, Weight: 82.0, Date: time.Now().Add(-48 * time.Hour)}
	newer := &domain.WeightRecord{UserID: user.ID, Weight: 80.5, Date: time.Now()}
	_, err = f.weights.Create(ctx, older)
	require.NoError(t, err)
	_, err = f.weights.Create(ctx, newer)
	require.NoError(t, err)

	got, err = f.svc.GetUser(ctx, user.ID, domain.RoleStudent, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentWeight)
	assert.Equal(t, 80.5, *got.CurrentWeight)
	assert.Empty(t, got.PasswordHash)
}

func TestUpdateProfile_AppendsOneEventPerChangedField(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	user.City = "Lisbon"
	require.NoError(t, f.users.UpdateProfile(context.Background(), user))
	ctx := context.Background()

	updated, events, err := f.svc.UpdateProfile(ctx, user.ID, domain.RoleStudent, user.ID, ProfileUpdate{
		Name:  "Ana Silva",
		Email: "ana@example.com",
		City:  "Porto",
		Phone: "999111222",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", updated.Name)
	assert.Equal(t, "Porto", updated.City)
	require.Len(t, events, 3) // name, city, phone

	stored, err := f.history.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Contains(t, stored[1].Event, "The field city has been changed from Lisbon to Porto")

	persisted, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", persisted.Name)
}

func TestUpdateProfile_NoChangesAppendsNothing(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	_, events, err := f.svc.UpdateProfile(ctx, user.ID, domain.RoleStudent, user.ID, ProfileUpdate{
		Name:  "Ana",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, events)

	stored, err := f.history.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUpdateProfile_AssignedTrainerMayEditStudent(t *testing.T) {
	f := newUserFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	student := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()
	_, err := f.rels.Create(ctx, &domain.Relationship{ProfessionalID: trainer.ID, StudentID: student.ID, Status: domain.RelationshipActive})
	require.NoError(t, err)

	_, events, err := f.svc.UpdateProfile(ctx, trainer.ID, domain.RoleTrainer, student.ID, ProfileUpdate{
		Name:  "Ana Silva",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// A student editing another student stays forbidden.
	other := f.addUser(t, "Bia", "bia@example.com", domain.RoleStudent)
	_, _, err = f.svc.UpdateProfile(ctx, other.ID, domain.RoleStudent, student.ID, ProfileUpdate{Name: "X", Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestUpdateProfile_UnknownUserIsNotFound(t *testing.T) {
	f := newUserFixture()

	_, _, err := f.svc.UpdateProfile(context.Background(), primitive.NewObjectID(), domain.RoleAdmin, primitive.NewObjectID(), ProfileUpdate{Name: "X", Email: "x@example.com"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAddWeightRecord_RejectsNonPositiveWeight(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)

	_, err := f.svc.AddWeightRecord(context.Background(), user.ID, domain.RoleStudent, user.ID, 0, nil, time.Now())
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "invalid_weight", CodeOf(err))
}

func TestAddWeightRecord_ListNewestFirst(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	_, err := f.svc.AddWeightRecord(ctx, user.ID, domain.RoleStudent, user.ID, 82, nil, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	_, err = f.svc.AddWeightRecord(ctx, user.ID, domain.RoleStudent, user.ID, 81, floatp(18.5), time.Now())
	require.NoError(t, err)

	records, err := f.svc.ListWeightRecords(ctx, user.ID, domain.RoleStudent, user.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 81.0, records[0].Weight)
	assert.Equal(t, 82.0, records[1].Weight)
}

func TestProgressPhoto_UploadConfirmDownloadFlow(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	record, err := f.svc.AddWeightRecord(ctx, user.ID, domain.RoleStudent, user.ID, 80, nil, time.Now())
	require.NoError(t, err)

	// No photo yet.
	_, err = f.svc.GetProgressPhotoURL(ctx, user.ID, domain.RoleStudent, user.ID, record.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	resp, err := f.svc.RequestProgressPhotoUploadURL(ctx, user.ID, domain.RoleStudent, user.ID, record.ID, "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ObjectKey, "progress/"+user.ID.Hex()+"/"+record.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(resp.ObjectKey, ".jpeg"))
	assert.Contains(t, resp.UploadURL, resp.ObjectKey)

	require.NoError(t, f.svc.ConfirmProgressPhoto(ctx, user.ID, domain.RoleStudent, user.ID, record.ID, resp.ObjectKey))

	url, err := f.svc.GetProgressPhotoURL(ctx, user.ID, domain.RoleStudent, user.ID, record.ID)
	require.NoError(t, err)
	assert.Contains(t, url, resp.ObjectKey)
}

func TestProgressPhoto_RejectsNonImageContentType(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	record, err := f.svc.AddWeightRecord(ctx, user.ID, domain.RoleStudent, user.ID, 80, nil, time.Now())
	require.NoError(t, err)

	_, err = f.svc.RequestProgressPhotoUploadURL(ctx, user.ID, domain.RoleStudent, user.ID, record.ID, "application/pdf")
	require.Error(t, err)
	assert.Equal(t, "invalid_content_type", CodeOf(err))
}

func TestProgressPhoto_RecordOwnedByAnotherUserIsNotFound(t *testing.T) {
	f := newUserFixture()
	owner := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	admin := f.addUser(t, "Root", "root@example.com", domain.RoleAdmin)
	other := f.addUser(t, "Bia", "bia@example.com", domain.RoleStudent)
	ctx := context.Background()

	record, err := f.svc.AddWeightRecord(ctx, owner.ID, domain.RoleStudent, owner.ID, 80, nil, time.Now())
	require.NoError(t, err)

	// Even an admin asking through the wrong user gets a not-found: the
	// record does not belong to that user's collection.
	_, err = f.svc.RequestProgressPhotoUploadURL(ctx, admin.ID, domain.RoleAdmin, other.ID, record.ID, "image/png")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListUsers_AdminOnly(t *testing.T) {
	f := newUserFixture()
	admin := f.addUser(t, "Root", "root@example.com", domain.RoleAdmin)
	f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	users, err := f.svc.ListUsers(ctx, admin.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	_, err = f.svc.ListUsers(ctx, trainer.ID, domain.RoleTrainer)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestDeleteUser_AdminOnlyIncludingSelf(t *testing.T) {
	f := newUserFixture()
	admin := f.addUser(t, "Root", "root@example.com", domain.RoleAdmin)
	student := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	// Self-access does not grant admin-only actions.
	err := f.svc.DeleteUser(ctx, student.ID, domain.RoleStudent, student.ID)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, f.svc.DeleteUser(ctx, admin.ID, domain.RoleAdmin, student.ID))
	_, err = f.users.GetByID(ctx, student.ID)
	require.Error(t, err)
}
