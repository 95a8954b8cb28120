package email

import (
	"context"
	"time"

	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryLog keeps one record per outbound message.
type DeliveryLog interface {
	Queue(ctx context.Context, email *Email) error
	Finish(ctx context.Context, id primitive.ObjectID, result Result) error
	Failed(ctx context.Context, since time.Time, limit int64) ([]Email, error)
}

type EmailRepository struct {
	col *mongo.Collection
}

func NewEmailRepository(db *database.MongodbDB) DeliveryLog {
	return &EmailRepository{
		col: db.DB.Collection("emails"),
	}
}

func (r *EmailRepository) Queue(ctx context.Context, email *Email) error {
	if email.ID.IsZero() {
		email.ID = primitive.NewObjectID()
	}
	email.Status = EmailQueued
	email.CreatedAt = time.Now()
	_, err := r.col.InsertOne(ctx, email)
	return err
}

// Finish stamps the transport outcome onto a queued record.
func (r *EmailRepository) Finish(ctx context.Context, id primitive.ObjectID, result Result) error {
	set := bson.M{"status": EmailSent}
	if result.Success {
		set["sentAt"] = time.Now()
	} else {
		set["status"] = EmailFailed
		set["errorMessage"] = result.Message
	}
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (r *EmailRepository) Failed(ctx context.Context, since time.Time, limit int64) ([]Email, error) {
	filter := bson.M{
		"status":    EmailFailed,
		"createdAt": bson.M{"$gte": since},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	emails := []Email{}
	if err := cursor.All(ctx, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}
