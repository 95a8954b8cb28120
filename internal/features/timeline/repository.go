package timeline

import (
	"context"

	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TimelineRepository interface {
	Create(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByComplaint(ctx context.Context, complaintID primitive.ObjectID, onlyVisible bool) ([]Entry, error)
	DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type TimelineRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTimelineRepository(db *database.MongodbDB) TimelineRepository {
	return &TimelineRepositoryImpl{
		collection: db.DB.Collection("timelines"),
	}
}

func (r *TimelineRepositoryImpl) Create(ctx context.Context, entry *Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *TimelineRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *TimelineRepositoryImpl) FindByComplaint(ctx context.Context, complaintID primitive.ObjectID, onlyVisible bool) ([]Entry, error) {
	filter := bson.M{"complaintId": complaintID}
	if onlyVisible {
		filter["visibleToUser"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []Entry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *TimelineRepositoryImpl) DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error) {
	if len(complaintIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"complaintId": bson.M{"$in": complaintIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *TimelineRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "complaintId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}
