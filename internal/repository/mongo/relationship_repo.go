// internal/repository/mongo/relationship_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitcollab/fitness-app/internal/domain"
	"fitcollab/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const relationshipCollectionName = "relationships"

// mongoRelationshipRepository implements repository.RelationshipRepository
type mongoRelationshipRepository struct {
	collection *mongo.Collection
}

// NewMongoRelationshipRepository creates a new Relationship repository.
func NewMongoRelationshipRepository(db *mongo.Database) repository.RelationshipRepository {
	return &mongoRelationshipRepository{
		collection: db.Collection(relationshipCollectionName),
	}
}

// Create inserts a new professional/student edge.
func (r *mongoRelationshipRepository) Create(ctx context.Context, rel *domain.Relationship) (primitive.ObjectID, error) {
	if rel.ProfessionalID == primitive.NilObjectID || rel.StudentID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("relationship requires professionalId and studentId")
	}
	rel.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	rel.CreatedAt = now
	rel.UpdatedAt = now
	if rel.Status == "" {
		rel.Status = domain.RelationshipActive
	}

	result, err := r.collection.InsertOne(ctx, rel)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted relationship ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single relationship by its ID.
func (r *mongoRelationshipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Relationship, error) {
	var rel domain.Relationship
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// Find retrieves the edge for the (professional, student) pair.
func (r *mongoRelationshipRepository) Find(ctx context.Context, professionalID, studentID primitive.ObjectID) (*domain.Relationship, error) {
	var rel domain.Relationship
	filter := bson.M{
		"professionalId": professionalID,
		"studentId":      studentID,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&rel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rel, nil
}

// ListByProfessionalID retrieves all edges of one professional, newest first.
func (r *mongoRelationshipRepository) ListByProfessionalID(ctx context.Context, professionalID primitive.ObjectID) ([]domain.Relationship, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"professionalId": professionalID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rels []domain.Relationship
	if err = cursor.All(ctx, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// UpdateStatus changes the status of an edge (e.g. active -> ended).
func (r *mongoRelationshipRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.RelationshipStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRelationshipIndexes creates necessary indexes. Call during startup.
func EnsureRelationshipIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One edge per (professional, student) pair.
			Keys:    bson.D{{Key: "professionalId", Value: 1}, {Key: "studentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
