package service

import (
	"fitcollab/fitness-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeOp is the kind of operation the reconciler derived for one node.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// Entity names for Change records.
const (
	EntityWeek     = "training_week"
	EntityDay      = "training_day"
	EntityExercise = "exercise"
	EntitySeries   = "series"
	EntityDiet     = "diet"
	EntityMeal     = "meal"
	EntityMealItem = "meal_item"
)

// Change records one derived operation on one node of the plan tree.
type Change struct {
	Op     ChangeOp
	Entity string
	ID     primitive.ObjectID
}

// ChangeSet is the full delta between the persisted tree and the submitted
// one. Applying the merged tree the reconciler returns realizes exactly
// these operations.
type ChangeSet struct {
	ToCreate []Change
	ToUpdate []Change
	ToDelete []Change
}

func (cs *ChangeSet) create(entity string, id primitive.ObjectID) {
	cs.ToCreate = append(cs.ToCreate, Change{Op: OpCreate, Entity: entity, ID: id})
}

func (cs *ChangeSet) update(entity string, id primitive.ObjectID) {
	cs.ToUpdate = append(cs.ToUpdate, Change{Op: OpUpdate, Entity: entity, ID: id})
}

func (cs *ChangeSet) delete(entity string, id primitive.ObjectID) {
	cs.ToDelete = append(cs.ToDelete, Change{Op: OpDelete, Entity: entity, ID: id})
}

var errUnknownChildID = ErrValidation("unknown_child_id",
	"submitted node id does not belong to this plan")

// ReconcileTrainingWeek diffs the submitted week subtree against the
// persisted one, level by level and strictly by id equality:
//   - a submitted child without an id is a create (its children too);
//   - a submitted child matching a persisted sibling id is an update:
//     scalar fields are replaced wholesale, nil optional numerics keep the
//     persisted value, and its children are reconciled against that
//     sibling's children;
//   - a persisted child whose id is absent from the submitted siblings is
//     deleted with its entire subtree;
//   - a submitted id that matches no persisted sibling at its level is a
//     cross-owner injection and rejects the whole submission.
//
// existing == nil means a brand new aggregate: everything must be a create.
// The returned week is the merged tree to persist, children in submitted
// order, with fresh ids assigned to every created node. Completion flags
// are owned by the completion flow and are carried over, never taken from
// the submission.
func ReconcileTrainingWeek(existing *domain.TrainingWeek, submitted *domain.TrainingWeek) (*domain.TrainingWeek, *ChangeSet, error) {
	cs := &ChangeSet{}
	merged := &domain.TrainingWeek{
		WeekNumber: submitted.WeekNumber,
	}

	if existing == nil {
		if !submitted.ID.IsZero() {
			return nil, nil, errUnknownChildID
		}
		merged.ID = primitive.NewObjectID()
		cs.create(EntityWeek, merged.ID)
	} else {
		if submitted.ID != existing.ID {
			return nil, nil, errUnknownChildID
		}
		merged.ID = existing.ID
		merged.UserID = existing.UserID
		merged.CreatedAt = existing.CreatedAt
		cs.update(EntityWeek, merged.ID)
	}

	var existingDays []domain.TrainingDay
	if existing != nil {
		existingDays = existing.Days
	}
	days, err := reconcileDays(existingDays, submitted.Days, cs)
	if err != nil {
		return nil, nil, err
	}
	merged.Days = days
	return merged, cs, nil
}

func reconcileDays(existing, submitted []domain.TrainingDay, cs *ChangeSet) ([]domain.TrainingDay, error) {
	byID := make(map[primitive.ObjectID]*domain.TrainingDay, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	merged := make([]domain.TrainingDay, 0, len(submitted))
	seen := make(map[primitive.ObjectID]bool, len(submitted))
	for _, sub := range submitted {
		if sub.ID.IsZero() {
			day := domain.TrainingDay{
				ID:        primitive.NewObjectID(),
				Group:     sub.Group,
				DayOfWeek: sub.DayOfWeek,
			}
			exercises, err := reconcileExercises(nil, sub.Exercises, cs)
			if err != nil {
				return nil, err
			}
			day.Exercises = exercises
			cs.create(EntityDay, day.ID)
			merged = append(merged, day)
			continue
		}

		cur, ok := byID[sub.ID]
		if !ok {
			return nil, errUnknownChildID
		}
		seen[sub.ID] = true
		day := domain.TrainingDay{
			ID:        cur.ID,
			Group:     sub.Group,
			DayOfWeek: sub.DayOfWeek,
		}
		exercises, err := reconcileExercises(cur.Exercises, sub.Exercises, cs)
		if err != nil {
			return nil, err
		}
		day.Exercises = exercises
		cs.update(EntityDay, day.ID)
		merged = append(merged, day)
	}

	for i := range existing {
		if !seen[existing[i].ID] {
			deleteDaySubtree(&existing[i], cs)
		}
	}
	return merged, nil
}

func reconcileExercises(existing, submitted []domain.Exercise, cs *ChangeSet) ([]domain.Exercise, error) {
	byID := make(map[primitive.ObjectID]*domain.Exercise, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	merged := make([]domain.Exercise, 0, len(submitted))
	seen := make(map[primitive.ObjectID]bool, len(submitted))
	for _, sub := range submitted {
		if sub.ID.IsZero() {
			ex := domain.Exercise{
				ID:          primitive.NewObjectID(),
				Name:        sub.Name,
				Repetitions: sub.Repetitions,
				Sets:        sub.Sets,
				Weight:      sub.Weight,
			}
			series, err := reconcileSeries(nil, sub.Series, cs)
			if err != nil {
				return nil, err
			}
			ex.Series = series
			cs.create(EntityExercise, ex.ID)
			merged = append(merged, ex)
			continue
		}

		cur, ok := byID[sub.ID]
		if !ok {
			return nil, errUnknownChildID
		}
		seen[sub.ID] = true
		ex := domain.Exercise{
			ID:          cur.ID,
			Name:        sub.Name,
			Repetitions: orKeepInt(sub.Repetitions, cur.Repetitions),
			Sets:        orKeepInt(sub.Sets, cur.Sets),
			Weight:      orKeepFloat(sub.Weight, cur.Weight),
			Done:        cur.Done,
		}
		series, err := reconcileSeries(cur.Series, sub.Series, cs)
		if err != nil {
			return nil, err
		}
		ex.Series = series
		cs.update(EntityExercise, ex.ID)
		merged = append(merged, ex)
	}

	for i := range existing {
		if !seen[existing[i].ID] {
			deleteExerciseSubtree(&existing[i], cs)
		}
	}
	return merged, nil
}

func reconcileSeries(existing, submitted []domain.Series, cs *ChangeSet) ([]domain.Series, error) {
	byID := make(map[primitive.ObjectID]*domain.Series, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	merged := make([]domain.Series, 0, len(submitted))
	seen := make(map[primitive.ObjectID]bool, len(submitted))
	for _, sub := range submitted {
		if sub.ID.IsZero() {
			s := domain.Series{
				ID:          primitive.NewObjectID(),
				Number:      sub.Number,
				Repetitions: sub.Repetitions,
				Weight:      sub.Weight,
			}
			cs.create(EntitySeries, s.ID)
			merged = append(merged, s)
			continue
		}

		cur, ok := byID[sub.ID]
		if !ok {
			return nil, errUnknownChildID
		}
		seen[sub.ID] = true
		s := domain.Series{
			ID:          cur.ID,
			Number:      orKeepInt(sub.Number, cur.Number),
			Repetitions: orKeepInt(sub.Repetitions, cur.Repetitions),
			Weight:      orKeepFloat(sub.Weight, cur.Weight),
		}
		cs.update(EntitySeries, s.ID)
		merged = append(merged, s)
	}

	for i := range existing {
		if !seen[existing[i].ID] {
			cs.delete(EntitySeries, existing[i].ID)
		}
	}
	return merged, nil
}

func deleteDaySubtree(day *domain.TrainingDay, cs *ChangeSet) {
	cs.delete(EntityDay, day.ID)
	for i := range day.Exercises {
		deleteExerciseSubtree(&day.Exercises[i], cs)
	}
}

func deleteExerciseSubtree(ex *domain.Exercise, cs *ChangeSet) {
	cs.delete(EntityExercise, ex.ID)
	for i := range ex.Series {
		cs.delete(EntitySeries, ex.Series[i].ID)
	}
}

// ReconcileDiet mirrors ReconcileTrainingWeek for the diet -> meal -> item
// tree, with the same id-matching rules.
func ReconcileDiet(existing *domain.Diet, submitted *domain.Diet) (*domain.Diet, *ChangeSet, error) {
	cs := &ChangeSet{}
	merged := &domain.Diet{
		Name: submitted.Name,
	}

	if existing == nil {
		if !submitted.ID.IsZero() {
			return nil, nil, errUnknownChildID
		}
		merged.ID = primitive.NewObjectID()
		cs.create(EntityDiet, merged.ID)
	} else {
		if submitted.ID != existing.ID {
			return nil, nil, errUnknownChildID
		}
		merged.ID = existing.ID
		merged.UserID = existing.UserID
		merged.CreatedAt = existing.CreatedAt
		cs.update(EntityDiet, merged.ID)
	}

	var existingMeals []domain.Meal
	if existing != nil {
		existingMeals = existing.Meals
	}
	meals, err := reconcileMeals(existingMeals, submitted.Meals, cs)
	if err != nil {
		return nil, nil, err
	}
	merged.Meals = meals
	return merged, cs, nil
}

func reconcileMeals(existing, submitted []domain.Meal, cs *ChangeSet) ([]domain.Meal, error) {
	byID := make(map[primitive.ObjectID]*domain.Meal, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	merged := make([]domain.Meal, 0, len(submitted))
	seen := make(map[primitive.ObjectID]bool, len(submitted))
	for _, sub := range submitted {
		if sub.ID.IsZero() {
			meal := domain.Meal{
				ID:       primitive.NewObjectID(),
				Name:     sub.Name,
				MealTime: sub.MealTime,
			}
			items, err := reconcileMealItems(nil, sub.Items, cs)
			if err != nil {
				return nil, err
			}
			meal.Items = items
			cs.create(EntityMeal, meal.ID)
			merged = append(merged, meal)
			continue
		}

		cur, ok := byID[sub.ID]
		if !ok {
			return nil, errUnknownChildID
		}
		seen[sub.ID] = true
		meal := domain.Meal{
			ID:       cur.ID,
			Name:     sub.Name,
			MealTime: sub.MealTime,
			Done:     cur.Done,
		}
		items, err := reconcileMealItems(cur.Items, sub.Items, cs)
		if err != nil {
			return nil, err
		}
		meal.Items = items
		cs.update(EntityMeal, meal.ID)
		merged = append(merged, meal)
	}

	for i := range existing {
		if !seen[existing[i].ID] {
			deleteMealSubtree(&existing[i], cs)
		}
	}
	return merged, nil
}

func reconcileMealItems(existing, submitted []domain.MealItem, cs *ChangeSet) ([]domain.MealItem, error) {
	byID := make(map[primitive.ObjectID]*domain.MealItem, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
	}

	merged := make([]domain.MealItem, 0, len(submitted))
	seen := make(map[primitive.ObjectID]bool, len(submitted))
	for _, sub := range submitted {
		if sub.ID.IsZero() {
			item := domain.MealItem{
				ID:       primitive.NewObjectID(),
				Name:     sub.Name,
				Quantity: sub.Quantity,
				Unit:     sub.Unit,
				Calories: sub.Calories,
			}
			cs.create(EntityMealItem, item.ID)
			merged = append(merged, item)
			continue
		}

		cur, ok := byID[sub.ID]
		if !ok {
			return nil, errUnknownChildID
		}
		seen[sub.ID] = true
		item := domain.MealItem{
			ID:       cur.ID,
			Name:     sub.Name,
			Quantity: orKeepFloat(sub.Quantity, cur.Quantity),
			Unit:     sub.Unit,
			Calories: orKeepInt(sub.Calories, cur.Calories),
		}
		cs.update(EntityMealItem, item.ID)
		merged = append(merged, item)
	}

	for i := range existing {
		if !seen[existing[i].ID] {
			cs.delete(EntityMealItem, existing[i].ID)
		}
	}
	return merged, nil
}

func deleteMealSubtree(meal *domain.Meal, cs *ChangeSet) {
	cs.delete(EntityMeal, meal.ID)
	for i := range meal.Items {
		cs.delete(EntityMealItem, meal.Items[i].ID)
	}
}

// Absent optional numerics on an update mean "leave unchanged".
func orKeepInt(submitted, current *int) *int {
	if submitted != nil {
		return submitted
	}
	return current
}

func orKeepFloat(submitted, current *float64) *float64 {
	if submitted != nil {
		return submitted
	}
	return current
}
