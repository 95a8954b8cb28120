package chat

import (
	"context"
	"errors"
	"time"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository interface {
	Append(ctx context.Context, complaintID primitive.ObjectID, msg Message, increment []common_models.CanonicalRole) (*Chat, error)
	ResetCount(ctx context.Context, complaintID primitive.ObjectID, role common_models.CanonicalRole) (*Chat, error)
	FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) (*Chat, error)
	DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type ChatRepositoryImpl struct {
	collection *mongo.Collection
}

func NewChatRepository(db *database.MongodbDB) ChatRepository {
	return &ChatRepositoryImpl{
		collection: db.DB.Collection("chats"),
	}
}

// Append pushes msg and bumps the given counters in one upsert. Counters that
// are not bumped are zero-initialised when the chat is first created.
func (r *ChatRepositoryImpl) Append(ctx context.Context, complaintID primitive.ObjectID, msg Message, increment []common_models.CanonicalRole) (*Chat, error) {
	now := time.Now()

	inc := bson.M{}
	for _, role := range increment {
		inc["unseenCounts."+string(role)] = 1
	}
	onInsert := bson.M{"createdAt": now}
	for _, role := range common_models.CanonicalRoles {
		if _, bumped := inc["unseenCounts."+string(role)]; !bumped {
			onInsert["unseenCounts."+string(role)] = 0
		}
	}

	update := bson.M{
		"$push":        bson.M{"messages": msg},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": onInsert,
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var chat Chat
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"complaintId": complaintID}, update, opts).Decode(&chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) ResetCount(ctx context.Context, complaintID primitive.ObjectID, role common_models.CanonicalRole) (*Chat, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var chat Chat
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"complaintId": complaintID},
		bson.M{"$set": bson.M{"unseenCounts." + string(role): 0}},
		opts,
	).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("chat")
		}
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) (*Chat, error) {
	var chat Chat
	if err := r.collection.FindOne(ctx, bson.M{"complaintId": complaintID}).Decode(&chat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("chat")
		}
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error) {
	if len(complaintIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"complaintId": bson.M{"$in": complaintIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *ChatRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "complaintId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
