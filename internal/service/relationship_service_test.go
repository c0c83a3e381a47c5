package service

import (
	"context"
	"testing"

	"fitcollab/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type relationshipFixture struct {
	svc   RelationshipService
	users *memUserRepo
	rels  *memRelationshipRepo
}

func newRelationshipFixture() *relationshipFixture {
	users := newMemUserRepo()
	rels := newMemRelationshipRepo()
	return &relationshipFixture{
		svc:   NewRelationshipService(users, rels),
		users: users,
		rels:  rels,
	}
}

func (f *relationshipFixture) addUser(t *testing.T, name, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: email, Role: role, PasswordHash: "hash"}
	_, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestAddStudentByEmail_CreatesActiveEdge(t *testing.T) {
	f := newRelationshipFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	student := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	got, err := f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
	assert.Empty(t, got.PasswordHash)

	rel, err := f.rels.Find(ctx, trainer.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, rel.IsActive())
}

func TestAddStudentByEmail_RejectsNonProfessionalActor(t *testing.T) {
	f := newRelationshipFixture()
	student := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)

	_, err := f.svc.AddStudentByEmail(context.Background(), student.ID, domain.RoleStudent, "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestAddStudentByEmail_UnknownEmailIsNotFound(t *testing.T) {
	f := newRelationshipFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)

	_, err := f.svc.AddStudentByEmail(context.Background(), trainer.ID, domain.RoleTrainer, "nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "student_not_found", CodeOf(err))
}

func TestAddStudentByEmail_TargetMustBeStudent(t *testing.T) {
	f := newRelationshipFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	f.addUser(t, "Marta", "marta@example.com", domain.RoleNutritionist)

	_, err := f.svc.AddStudentByEmail(context.Background(), trainer.ID, domain.RoleTrainer, "marta@example.com")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "not_a_student", CodeOf(err))
}

func TestAddStudentByEmail_ActiveEdgeIsAConflict(t *testing.T) {
	f := newRelationshipFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	_, err := f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, "ana@example.com")
	require.NoError(t, err)

	_, err = f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "already_assigned", CodeOf(err))
}

func TestAddStudentByEmail_RevivesEndedEdge(t *testing.T) {
	f := newRelationshipFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	student := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	_, err := f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, "ana@example.com")
	require.NoError(t, err)
	rel, err := f.rels.Find(ctx, trainer.ID, student.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.EndRelationship(ctx, trainer.ID, domain.RoleTrainer, rel.ID))

	// Re-adding flips the same edge back to active instead of inserting
	// a second pair.
	_, err = f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, "ana@example.com")
	require.NoError(t, err)

	revived, err := f.rels.GetByID(ctx, rel.ID)
	require.NoError(t, err)
	assert.True(t, revived.IsActive())
	all, err := f.rels.ListByProfessionalID(ctx, trainer.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetStudents_ReturnsOnlyActiveEdges(t *testing.T) {
	f := newRelationshipFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	ana := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	bia := f.addUser(t, "Bia", "bia@example.com", domain.RoleStudent)
	ctx := context.Background()

	_, err := f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, ana.Email)
	require.NoError(t, err)
	_, err = f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, bia.Email)
	require.NoError(t, err)

	rel, err := f.rels.Find(ctx, trainer.ID, bia.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.EndRelationship(ctx, trainer.ID, domain.RoleTrainer, rel.ID))

	students, err := f.svc.GetStudents(ctx, trainer.ID, domain.RoleTrainer)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, ana.ID, students[0].ID)
	assert.Empty(t, students[0].PasswordHash)
}

func TestEndRelationship_OnlyOwnerOrAdmin(t *testing.T) {
	f := newRelationshipFixture()
	trainer := f.addUser(t, "Rui", "rui@example.com", domain.RoleTrainer)
	other := f.addUser(t, "Marta", "marta@example.com", domain.RoleTrainer)
	admin := f.addUser(t, "Root", "root@example.com", domain.RoleAdmin)
	student := f.addUser(t, "Ana", "ana@example.com", domain.RoleStudent)
	ctx := context.Background()

	_, err := f.svc.AddStudentByEmail(ctx, trainer.ID, domain.RoleTrainer, student.Email)
	require.NoError(t, err)
	rel, err := f.rels.Find(ctx, trainer.ID, student.ID)
	require.NoError(t, err)

	err = f.svc.EndRelationship(ctx, other.ID, domain.RoleTrainer, rel.ID)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, f.svc.EndRelationship(ctx, admin.ID, domain.RoleAdmin, rel.ID))
	ended, err := f.rels.GetByID(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RelationshipEnded, ended.Status)

	// Ending an already ended edge is a no-op.
	require.NoError(t, f.svc.EndRelationship(ctx, trainer.ID, domain.RoleTrainer, rel.ID))
}

func TestEndRelationship_UnknownEdgeIsNotFound(t *testing.T) {
	f := newRelationshipFixture()

	err := f.svc.EndRelationship(context.Background(), primitive.NewObjectID(), domain.RoleAdmin, primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
