package notification

import (
	"context"
	"time"

	"go-bighil/internal/common/apperr"
	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListForRecipient(ctx context.Context, targetID primitive.ObjectID, page, limit int64) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, targetID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, targetID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, targetID primitive.ObjectID) (int64, error)
	RemoveRecipient(ctx context.Context, id, targetID primitive.ObjectID) (bool, error)
	DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error)
}

type NotificationRepositoryImpl struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		collection: db.DB.Collection("notifications"),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	result, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *NotificationRepositoryImpl) ListForRecipient(ctx context.Context, targetID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	filter := bson.M{"recipients.targetId": targetID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) UnreadCount(ctx context.Context, targetID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"recipients": bson.M{"$elemMatch": bson.M{"targetId": targetID, "read": false}},
	})
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id, targetID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipients.targetId": targetID},
		bson.M{"$set": bson.M{
			"recipients.$.read":   true,
			"recipients.$.readAt": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("notification")
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, targetID primitive.ObjectID) (int64, error) {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"r.targetId": targetID, "r.read": false}},
	})
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"recipients": bson.M{"$elemMatch": bson.M{"targetId": targetID, "read": false}}},
		bson.M{"$set": bson.M{
			"recipients.$[r].read":   true,
			"recipients.$[r].readAt": time.Now(),
		}},
		opts,
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RemoveRecipient pulls targetID and deletes the notification if nobody is left.
func (r *NotificationRepositoryImpl) RemoveRecipient(ctx context.Context, id, targetID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipients.targetId": targetID},
		bson.M{"$pull": bson.M{"recipients": bson.M{"targetId": targetID}}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, apperr.NotFound("notification")
	}

	del, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "recipients": bson.M{"$size": 0}})
	if err != nil {
		return false, err
	}
	return del.DeletedCount == 1, nil
}

func (r *NotificationRepositoryImpl) DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error) {
	if len(complaintIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"complaintId": bson.M{"$in": complaintIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
