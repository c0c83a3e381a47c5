package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanService covers every use case touching a plan aggregate: submitting a
// whole training week or diet tree (create or resubmit), reading them back,
// deleting them, and the exercise/meal completion flow.
//
// Each mutation targets exactly one aggregate root. Concurrent resubmissions
// of the same aggregate are last-writer-wins at whole-aggregate-replace
// granularity; there is no optimistic-concurrency token.
type PlanService interface {
	SaveTrainingWeek(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID, submitted *domain.TrainingWeek) (*domain.TrainingWeek, *ChangeSet, error)
	GetTrainingWeeks(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID) ([]domain.TrainingWeek, error)
	DeleteTrainingWeek(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, weekID primitive.ObjectID) error

	SaveDiet(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID, submitted *domain.Diet) (*domain.Diet, *ChangeSet, error)
	GetDiets(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID) ([]domain.Diet, error)
	DeleteDiet(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, dietID primitive.ObjectID) error

	CompleteExercise(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	CompleteMeal(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, mealID primitive.ObjectID) (*domain.Meal, error)
}

// planService implements the PlanService interface.
type planService struct {
	weeks      repository.TrainingWeekRepository
	diets      repository.DietRepository
	history    repository.HistoryRepository
	authorizer *Authorizer
	tx         repository.TxRunner
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	weeks repository.TrainingWeekRepository,
	diets repository.DietRepository,
	history repository.HistoryRepository,
	authorizer *Authorizer,
	tx repository.TxRunner,
) PlanService {
	return &planService{
		weeks:      weeks,
		diets:      diets,
		history:    history,
		authorizer: authorizer,
		tx:         tx,
	}
}

// === Training week aggregate ===

// SaveTrainingWeek reconciles the submitted subtree against the persisted
// aggregate and writes the merged result in one atomic replace. A submission
// without a root id creates a new aggregate owned by ownerID.
func (s *planService) SaveTrainingWeek(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID, submitted *domain.TrainingWeek) (*domain.TrainingWeek, *ChangeSet, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, ownerID, ActionManagePlan); err != nil {
		return nil, nil, err
	}

	var existing *domain.TrainingWeek
	if !submitted.ID.IsZero() {
		week, err := s.weeks.GetByID(ctx, submitted.ID)
		if err != nil {
			return nil, nil, mapRepoErr(err, ErrNotFound("plan_not_found", "training week does not exist"))
		}
		if week.UserID != ownerID {
			// Resubmitting ids from another user's aggregate is an
			// injection attempt, not a not-found.
			return nil, nil, errUnknownChildID
		}
		existing = week
	}

	merged, cs, err := ReconcileTrainingWeek(existing, submitted)
	if err != nil {
		return nil, nil, err
	}

	if existing == nil {
		merged.UserID = ownerID
		if _, err := s.weeks.Insert(ctx, merged); err != nil {
			return nil, nil, ErrInfrastructure(err)
		}
	} else {
		if err := s.weeks.Replace(ctx, merged); err != nil {
			return nil, nil, mapRepoErr(err, ErrNotFound("plan_not_found", "training week does not exist"))
		}
	}
	return merged, cs, nil
}

// GetTrainingWeeks returns every training week owned by ownerID.
func (s *planService) GetTrainingWeeks(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID) ([]domain.TrainingWeek, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, ownerID, ActionViewPlan); err != nil {
		return nil, err
	}
	weeks, err := s.weeks.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	return weeks, nil
}

// DeleteTrainingWeek removes a whole aggregate, subtree included.
func (s *planService) DeleteTrainingWeek(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, weekID primitive.ObjectID) error {
	week, err := s.weeks.GetByID(ctx, weekID)
	if err != nil {
		return mapRepoErr(err, ErrNotFound("plan_not_found", "training week does not exist"))
	}
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, week.UserID, ActionManagePlan); err != nil {
		return err
	}
	if err := s.weeks.Delete(ctx, weekID); err != nil {
		return mapRepoErr(err, ErrNotFound("plan_not_found", "training week does not exist"))
	}
	return nil
}

// === Diet aggregate ===

// SaveDiet mirrors SaveTrainingWeek for the diet tree.
func (s *planService) SaveDiet(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID, submitted *domain.Diet) (*domain.Diet, *ChangeSet, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, ownerID, ActionManagePlan); err != nil {
		return nil, nil, err
	}

	var existing *domain.Diet
	if !submitted.ID.IsZero() {
		diet, err := s.diets.GetByID(ctx, submitted.ID)
		if err != nil {
			return nil, nil, mapRepoErr(err, ErrNotFound("plan_not_found", "diet does not exist"))
		}
		if diet.UserID != ownerID {
			return nil, nil, errUnknownChildID
		}
		existing = diet
	}

	merged, cs, err := ReconcileDiet(existing, submitted)
	if err != nil {
		return nil, nil, err
	}

	if existing == nil {
		merged.UserID = ownerID
		if _, err := s.diets.Insert(ctx, merged); err != nil {
			return nil, nil, ErrInfrastructure(err)
		}
	} else {
		if err := s.diets.Replace(ctx, merged); err != nil {
			return nil, nil, mapRepoErr(err, ErrNotFound("plan_not_found", "diet does not exist"))
		}
	}
	return merged, cs, nil
}

// GetDiets returns every diet owned by ownerID.
func (s *planService) GetDiets(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, ownerID primitive.ObjectID) ([]domain.Diet, error) {
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, ownerID, ActionViewPlan); err != nil {
		return nil, err
	}
	diets, err := s.diets.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, ErrInfrastructure(err)
	}
	return diets, nil
}

// DeleteDiet removes a whole diet aggregate.
func (s *planService) DeleteDiet(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, dietID primitive.ObjectID) error {
	diet, err := s.diets.GetByID(ctx, dietID)
	if err != nil {
		return mapRepoErr(err, ErrNotFound("plan_not_found", "diet does not exist"))
	}
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, diet.UserID, ActionManagePlan); err != nil {
		return err
	}
	if err := s.diets.Delete(ctx, dietID); err != nil {
		return mapRepoErr(err, ErrNotFound("plan_not_found", "diet does not exist"))
	}
	return nil
}

// === Completion state machine ===

// CompleteExercise flips one exercise from pending to done. Authorization is
// evaluated against the plan owner, found by walking exercise -> day ->
// week -> userId. Completing an already-done exercise is a no-op returning
// the current state.
func (s *planService) CompleteExercise(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	week, err := s.weeks.FindByExerciseID(ctx, exerciseID)
	if err != nil {
		return nil, mapRepoErr(err, ErrNotFound("exercise_not_found", "exercise does not exist"))
	}
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, week.UserID, ActionCompleteItem); err != nil {
		return nil, err
	}

	exercise := findExercise(week, exerciseID)
	if exercise == nil {
		return nil, ErrNotFound("exercise_not_found", "exercise does not exist")
	}
	if exercise.Done {
		return exercise, nil
	}

	exercise.Done = true
	if err := s.weeks.Replace(ctx, week); err != nil {
		return nil, mapRepoErr(err, ErrNotFound("exercise_not_found", "exercise does not exist"))
	}
	return exercise, nil
}

// CompleteMeal flips one meal to done and records a history event for the
// diet owner, both in the same transaction. The owner is found by walking
// meal -> diet -> userId; the event is attributed to the owner regardless
// of which actor completed the meal.
func (s *planService) CompleteMeal(ctx context.Context, actorID primitive.ObjectID, actorRole domain.Role, mealID primitive.ObjectID) (*domain.Meal, error) {
	diet, err := s.diets.FindByMealID(ctx, mealID)
	if err != nil {
		return nil, mapRepoErr(err, ErrNotFound("meal_not_found", "meal does not exist"))
	}
	if err := s.authorizer.Authorize(ctx, actorID, actorRole, diet.UserID, ActionCompleteItem); err != nil {
		return nil, err
	}

	meal := findMeal(diet, mealID)
	if meal == nil {
		return nil, ErrNotFound("meal_not_found", "meal does not exist")
	}
	if meal.Done {
		return meal, nil
	}

	meal.Done = true
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.diets.Replace(txCtx, diet); err != nil {
			return err
		}
		event := &domain.HistoryEvent{
			UserID: diet.UserID,
			Event:  fmt.Sprintf("%s marked as completed", meal.Name),
			Date:   time.Now().UTC(),
		}
		_, err := s.history.Append(txCtx, event)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound("meal_not_found", "meal does not exist")
		}
		return nil, ErrInfrastructure(err)
	}
	return meal, nil
}

func findExercise(week *domain.TrainingWeek, exerciseID primitive.ObjectID) *domain.Exercise {
	for d := range week.Days {
		for e := range week.Days[d].Exercises {
			if week.Days[d].Exercises[e].ID == exerciseID {
				return &week.Days[d].Exercises[e]
			}
		}
	}
	return nil
}

func findMeal(diet *domain.Diet, mealID primitive.ObjectID) *domain.Meal {
	for m := range diet.Meals {
		if diet.Meals[m].ID == mealID {
			return &diet.Meals[m]
		}
	}
	return nil
}
