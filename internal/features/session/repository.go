package session

import (
	"context"
	"errors"
	"time"

	"go-bighil/internal/common/apperr"
	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteBySubject(ctx context.Context, subjectID primitive.ObjectID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type SessionRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSessionRepository(db *database.MongodbDB) SessionRepository {
	return &SessionRepositoryImpl{
		collection: db.DB.Collection("sessions"),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, s *Session) error {
	_, err := r.collection.InsertOne(ctx, s)
	return err
}

func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id string) (*Session, error) {
	var s Session
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("session")
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *SessionRepositoryImpl) DeleteBySubject(ctx context.Context, subjectID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"subjectId": subjectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *SessionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subjectId", Value: 1}}},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
	})
	return err
}
