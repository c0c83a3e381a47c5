package service

import (
	"context"
	"errors"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action identifies what the actor is trying to do to the owner's resources.
type Action string

const (
	ActionViewProfile  Action = "view_profile"
	ActionEditProfile  Action = "edit_profile"
	ActionManagePlan   Action = "manage_plan"
	ActionViewPlan     Action = "view_plan"
	ActionCompleteItem Action = "complete_item"
	ActionRecordWeight Action = "record_weight"
	ActionViewHistory  Action = "view_history"

	// Admin-only actions. Self-access does not grant these.
	ActionListUsers  Action = "list_users"
	ActionDeleteUser Action = "delete_user"
)

var adminOnlyActions = map[Action]bool{
	ActionListUsers:  true,
	ActionDeleteUser: true,
}

// Authorizer is the single access-control evaluator. Every use case asks it
// whether (actor, role) may perform an action on resources owned by ownerID
// before touching any aggregate. It is pure apart from one relationship
// lookup for cross-user professional access.
type Authorizer struct {
	relationships repository.RelationshipRepository
}

// NewAuthorizer creates the evaluator over the relationship store.
func NewAuthorizer(relationships repository.RelationshipRepository) *Authorizer {
	return &Authorizer{relationships: relationships}
}

// Authorize returns nil when access is allowed, a kind-tagged *Error when
// denied, and an infrastructure error when the relationship store fails.
// Rules, in order:
//  1. admin-only actions require the admin role, self-access included;
//  2. anyone may act on their own resources;
//  3. admins may act on anyone's resources;
//  4. a professional may act on a student's resources only through an
//     active relationship;
//  5. everything else (students on other users in particular) is denied.
func (a *Authorizer) Authorize(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID, action Action) error {
	if adminOnlyActions[action] {
		if actorRole != domain.RoleAdmin {
			return ErrForbidden("forbidden", "action is restricted to administrators")
		}
		return nil
	}

	if actorID == ownerID {
		return nil
	}

	if actorRole == domain.RoleAdmin {
		return nil
	}

	if actorRole.IsProfessional() {
		rel, err := a.relationships.Find(ctx, actorID, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotAssigned("not_assigned", "professional is not assigned to this student")
			}
			return ErrInfrastructure(err)
		}
		if !rel.IsActive() {
			return ErrNotAssigned("not_assigned", "relationship with this student is not active")
		}
		return nil
	}

	return ErrForbidden("forbidden", "actor may not access another user's resources")
}
