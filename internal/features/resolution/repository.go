package resolution

import (
	"context"
	"errors"
	"time"

	"go-bighil/internal/common/apperr"
	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResolutionRepository interface {
	Create(ctx context.Context, res *Resolution) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Resolution, error)
	Latest(ctx context.Context, complaintID primitive.ObjectID) (*Resolution, error)
	FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) ([]Resolution, error)
	DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error)
}

type ResolutionRepositoryImpl struct {
	collection *mongo.Collection
}

func NewResolutionRepository(db *database.MongodbDB) ResolutionRepository {
	return &ResolutionRepositoryImpl{
		collection: db.DB.Collection("actionmessages"),
	}
}

func (r *ResolutionRepositoryImpl) Create(ctx context.Context, res *Resolution) error {
	if res.ID.IsZero() {
		res.ID = primitive.NewObjectID()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, res)
	return err
}

func (r *ResolutionRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ResolutionRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Resolution, error) {
	var res Resolution
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("resolution")
		}
		return nil, err
	}
	return &res, nil
}

func (r *ResolutionRepositoryImpl) Latest(ctx context.Context, complaintID primitive.ObjectID) (*Resolution, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	var res Resolution
	if err := r.collection.FindOne(ctx, bson.M{"complaintId": complaintID}, opts).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("resolution")
		}
		return nil, err
	}
	return &res, nil
}

func (r *ResolutionRepositoryImpl) FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) ([]Resolution, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"complaintId": complaintID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []Resolution{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ResolutionRepositoryImpl) DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error) {
	if len(complaintIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"complaintId": bson.M{"$in": complaintIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
