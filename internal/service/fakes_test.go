package service

import (
	"context"
	"sort"
	"time"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes of the repository interfaces so services can be tested
// without a running store.

type memUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	cur, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name = user.Name
	cur.Email = user.Email
	cur.Street = user.Street
	cur.Number = user.Number
	cur.ZipCode = user.ZipCode
	cur.City = user.City
	cur.State = user.State
	cur.Sex = user.Sex
	cur.Phone = user.Phone
	cur.BirthDate = user.BirthDate
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memRelationshipRepo struct {
	rels map[primitive.ObjectID]*domain.Relationship
}

func newMemRelationshipRepo() *memRelationshipRepo {
	return &memRelationshipRepo{rels: make(map[primitive.ObjectID]*domain.Relationship)}
}

func (r *memRelationshipRepo) Create(ctx context.Context, rel *domain.Relationship) (primitive.ObjectID, error) {
	rel.ID = primitive.NewObjectID()
	if rel.Status == "" {
		rel.Status = domain.RelationshipActive
	}
	cp := *rel
	r.rels[rel.ID] = &cp
	return rel.ID, nil
}

func (r *memRelationshipRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Relationship, error) {
	rel, ok := r.rels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rel
	return &cp, nil
}

func (r *memRelationshipRepo) Find(ctx context.Context, professionalID, studentID primitive.ObjectID) (*domain.Relationship, error) {
	for _, rel := range r.rels {
		if rel.ProfessionalID == professionalID && rel.StudentID == studentID {
			cp := *rel
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRelationshipRepo) ListByProfessionalID(ctx context.Context, professionalID primitive.ObjectID) ([]domain.Relationship, error) {
	var out []domain.Relationship
	for _, rel := range r.rels {
		if rel.ProfessionalID == professionalID {
			out = append(out, *rel)
		}
	}
	return out, nil
}

func (r *memRelationshipRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.RelationshipStatus) error {
	rel, ok := r.rels[id]
	if !ok {
		return repository.ErrNotFound
	}
	rel.Status = status
	return nil
}

type memWeekRepo struct {
	weeks map[primitive.ObjectID]*domain.TrainingWeek
}

func newMemWeekRepo() *memWeekRepo {
	return &memWeekRepo{weeks: make(map[primitive.ObjectID]*domain.TrainingWeek)}
}

func (r *memWeekRepo) Insert(ctx context.Context, week *domain.TrainingWeek) (primitive.ObjectID, error) {
	if week.ID.IsZero() {
		week.ID = primitive.NewObjectID()
	}
	cp := *week
	r.weeks[week.ID] = &cp
	return week.ID, nil
}

func (r *memWeekRepo) Replace(ctx context.Context, week *domain.TrainingWeek) error {
	if _, ok := r.weeks[week.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *week
	r.weeks[week.ID] = &cp
	return nil
}

func (r *memWeekRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingWeek, error) {
	week, ok := r.weeks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *week
	return &cp, nil
}

func (r *memWeekRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingWeek, error) {
	var out []domain.TrainingWeek
	for _, week := range r.weeks {
		if week.UserID == userID {
			out = append(out, *week)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out, nil
}

func (r *memWeekRepo) FindByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.TrainingWeek, error) {
	for _, week := range r.weeks {
		for _, day := range week.Days {
			for _, ex := range day.Exercises {
				if ex.ID == exerciseID {
					cp := *week
					return &cp, nil
				}
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memWeekRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.weeks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.weeks, id)
	return nil
}

type memDietRepo struct {
	diets map[primitive.ObjectID]*domain.Diet
}

func newMemDietRepo() *memDietRepo {
	return &memDietRepo{diets: make(map[primitive.ObjectID]*domain.Diet)}
}

func (r *memDietRepo) Insert(ctx context.Context, diet *domain.Diet) (primitive.ObjectID, error) {
	if diet.ID.IsZero() {
		diet.ID = primitive.NewObjectID()
	}
	cp := *diet
	r.diets[diet.ID] = &cp
	return diet.ID, nil
}

func (r *memDietRepo) Replace(ctx context.Context, diet *domain.Diet) error {
	if _, ok := r.diets[diet.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *diet
	r.diets[diet.ID] = &cp
	return nil
}

func (r *memDietRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Diet, error) {
	diet, ok := r.diets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *diet
	return &cp, nil
}

func (r *memDietRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Diet, error) {
	var out []domain.Diet
	for _, diet := range r.diets {
		if diet.UserID == userID {
			out = append(out, *diet)
		}
	}
	return out, nil
}

func (r *memDietRepo) FindByMealID(ctx context.Context, mealID primitive.ObjectID) (*domain.Diet, error) {
	for _, diet := range r.diets {
		for _, meal := range diet.Meals {
			if meal.ID == mealID {
				cp := *diet
				return &cp, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memDietRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.diets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.diets, id)
	return nil
}

type memWeightRepo struct {
	records map[primitive.ObjectID]*domain.WeightRecord
}

func newMemWeightRepo() *memWeightRepo {
	return &memWeightRepo{records: make(map[primitive.ObjectID]*domain.WeightRecord)}
}

func (r *memWeightRepo) Create(ctx context.Context, record *domain.WeightRecord) (primitive.ObjectID, error) {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now().UTC()
	if record.Date.IsZero() {
		record.Date = record.CreatedAt
	}
	cp := *record
	r.records[record.ID] = &cp
	return record.ID, nil
}

func (r *memWeightRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeightRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (r *memWeightRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightRecord, error) {
	var out []domain.WeightRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memWeightRepo) LatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.WeightRecord, error) {
	records, _ := r.GetByUserID(ctx, userID)
	if len(records) == 0 {
		return nil, repository.ErrNotFound
	}
	return &records[0], nil
}

func (r *memWeightRepo) SetPhotoObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	record, ok := r.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	record.PhotoObjectKey = objectKey
	return nil
}

type memHistoryRepo struct {
	events []domain.HistoryEvent
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{}
}

func (r *memHistoryRepo) Append(ctx context.Context, event *domain.HistoryEvent) (primitive.ObjectID, error) {
	event.ID = primitive.NewObjectID()
	if event.Date.IsZero() {
		event.Date = time.Now().UTC()
	}
	r.events = append(r.events, *event)
	return event.ID, nil
}

func (r *memHistoryRepo) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.HistoryEvent, error) {
	var out []domain.HistoryEvent
	for _, e := range r.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// memTx runs the callback directly; the fakes have no transaction boundary.
type memTx struct{}

func (memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeStorage satisfies storage.FileStorage without any backend.
type fakeStorage struct{}

func (fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}
