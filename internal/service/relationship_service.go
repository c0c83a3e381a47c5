package service

import (
	"context"
	"errors"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipService manages the professional/student edges the access
// control evaluator decides on.
type RelationshipService interface {
	// AddStudentByEmail links an existing student to the professional.
	AddStudentByEmail(ctx context.Context, professionalID primitive.ObjectID, professionalRole domain.Role, studentEmail string) (*domain.User, error)
	// GetStudents returns the professional's actively assigned students.
	GetStudents(ctx context.Context, professionalID primitive.ObjectID, professionalRole domain.Role) ([]domain.User, error)
	// EndRelationship marks an edge as ended; the professional loses access
	// to the student's resources from that point on.
	EndRelationship(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, relationshipID primitive.ObjectID) error
}

// relationshipService implements the RelationshipService interface.
type relationshipService struct {
	users         repository.UserRepository
	relationships repository.RelationshipRepository
}

// NewRelationshipService creates a new instance of relationshipService.
func NewRelationshipService(users repository.UserRepository, relationships repository.RelationshipRepository) RelationshipService {
	return &relationshipService{
		users:         users,
		relationships: relationships,
	}
}

// AddStudentByEmail looks the student up by email and creates (or revives)
// the edge. Linking a user who already has an active edge with this
// professional is a conflict.
func (s *relationshipService) AddStudentByEmail(ctx context.Context, professionalID primitive.ObjectID, professionalRole domain.Role, studentEmail string) (*domain.User, error) {
	if !professionalRole.IsProfessional() {
		return nil, ErrForbidden("forbidden", "only trainers and nutritionists may add students")
	}
	if studentEmail == "" {
		return nil, ErrValidation("missing_email", "student email is required")
	}

	student, err := s.users.GetByEmail(ctx, studentEmail)
	if err != nil {
		return nil, mapRepoErr(err, ErrNotFound("student_not_found", "no user with this email"))
	}
	if !student.IsStudent() {
		return nil, ErrValidation("not_a_student", "user with this email is not a student")
	}

	existing, err := s.relationships.Find(ctx, professionalID, student.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInfrastructure(err)
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, ErrConflict("already_assigned", "student is already assigned to this professional")
		}
		// Revive the ended edge instead of inserting a duplicate pair.
		if err := s.relationships.UpdateStatus(ctx, existing.ID, domain.RelationshipActive); err != nil {
			return nil, mapRepoErr(err, ErrNotFound("relationship_not_found", "relationship does not exist"))
		}
	} else {
		rel := &domain.Relationship{
			ProfessionalID: professionalID,
			StudentID:      student.ID,
			Status:         domain.RelationshipActive,
		}
		if _, err := s.relationships.Create(ctx, rel); err != nil {
			return nil, mapRepoErr(err, ErrNotFound("student_not_found", "no user with this email"))
		}
	}

	student.PasswordHash = ""
	return student, nil
}

// GetStudents resolves the professional's active edges into user records.
func (s *relationshipService) GetStudents(ctx context.Context, professionalID primitive.ObjectID, professionalRole domain.Role) ([]domain.User, error) {
	if !professionalRole.IsProfessional() {
		return nil, ErrForbidden("forbidden", "only trainers and nutritionists have students")
	}

	rels, err := s.relationships.ListByProfessionalID(ctx, professionalID)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	ids := make([]primitive.ObjectID, 0, len(rels))
	for _, rel := range rels {
		if rel.IsActive() {
			ids = append(ids, rel.StudentID)
		}
	}

	students, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	for i := range students {
		students[i].PasswordHash = ""
	}
	return students, nil
}

// EndRelationship is allowed to the owning professional and to admins.
func (s *relationshipService) EndRelationship(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, relationshipID primitive.ObjectID) error {
	rel, err := s.relationships.GetByID(ctx, relationshipID)
	if err != nil {
		return mapRepoErr(err, ErrNotFound("relationship_not_found", "relationship does not exist"))
	}
	if actorRole != domain.RoleAdmin && rel.ProfessionalID != actorID {
		return ErrForbidden("forbidden", "actor may not end this relationship")
	}
	if rel.Status == domain.RelationshipEnded {
		return nil
	}
	if err := s.relationships.UpdateStatus(ctx, relationshipID, domain.RelationshipEnded); err != nil {
		return mapRepoErr(err, ErrNotFound("relationship_not_found", "relationship does not exist"))
	}
	return nil
}
