package complaint

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go-bighil/internal/common/apperr"
	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStaleState is returned by Transition when the guard no longer matches.
var ErrStaleState = errors.New("complaint state changed concurrently")

type ComplaintRepository interface {
	Create(ctx context.Context, c *Complaint) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Complaint, error)
	List(ctx context.Context, filter ListFilter) ([]Complaint, int64, error)
	Transition(ctx context.Context, id primitive.ObjectID, guard Guard, change Change) (*Complaint, error)
	PushNote(ctx context.Context, id, noteID primitive.ObjectID) error
	AttachChat(ctx context.Context, id, chatID primitive.ObjectID) error
	NextSequence(ctx context.Context, companyID primitive.ObjectID) (int64, error)
	IDsByCompany(ctx context.Context, companyID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error)
	Stats(ctx context.Context, companyID *primitive.ObjectID) (*Stats, error)
	EnsureIndexes(ctx context.Context) error
}

type ComplaintRepositoryImpl struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewComplaintRepository(db *database.MongodbDB) ComplaintRepository {
	return &ComplaintRepositoryImpl{
		collection: db.DB.Collection("complaints"),
		counters:   db.DB.Collection("counters"),
	}
}

func (r *ComplaintRepositoryImpl) Create(ctx context.Context, c *Complaint) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *ComplaintRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Complaint, error) {
	var c Complaint
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("complaint")
		}
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepositoryImpl) List(ctx context.Context, f ListFilter) ([]Complaint, int64, error) {
	filter := bson.M{}
	if f.CompanyID != nil {
		filter["companyId"] = *f.CompanyID
	}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.Status != "" {
		filter["status_of_client"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"complaintId": pattern},
			bson.M{"subject": pattern},
			bson.M{"message": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetSkip((f.Page - 1) * f.Limit).SetLimit(f.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	complaints := []Complaint{}
	if err = cursor.All(ctx, &complaints); err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// Transition applies change only if the stored document still satisfies guard.
func (r *ComplaintRepositoryImpl) Transition(ctx context.Context, id primitive.ObjectID, guard Guard, change Change) (*Complaint, error) {
	filter := bson.M{"_id": id, "status_of_client": guard.Status}
	if guard.AuthorizationStatus != "" {
		filter["authorizationStatus"] = guard.AuthorizationStatus
	}

	set := bson.M{
		"status_of_client": change.Status,
		"updatedAt":        time.Now(),
	}
	if change.PreviousStatus != "" {
		set["previous_status_of_client"] = change.PreviousStatus
	}
	if change.AuthorizationStatus != "" {
		set["authorizationStatus"] = change.AuthorizationStatus
	}
	update := bson.M{"$set": set}

	if change.ClearPrevious {
		update["$unset"] = bson.M{"previous_status_of_client": ""}
	}

	push := bson.M{}
	if !change.PushTimeline.IsZero() {
		push["timeline"] = change.PushTimeline
	}
	if !change.PushResolution.IsZero() {
		push["actionMessage"] = change.PushResolution
	}
	if change.PushRejection != "" {
		push["authoriseRejectionReason"] = change.PushRejection
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Complaint
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStaleState
		}
		return nil, err
	}
	return &updated, nil
}

func (r *ComplaintRepositoryImpl) PushNote(ctx context.Context, id, noteID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"notes": noteID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("complaint")
	}
	return nil
}

// AttachChat sets the chat reference once; later calls are no-ops.
func (r *ComplaintRepositoryImpl) AttachChat(ctx context.Context, id, chatID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "chat": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"chat": chatID}},
	)
	return err
}

func (r *ComplaintRepositoryImpl) NextSequence(ctx context.Context, companyID primitive.ObjectID) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "complaint_" + companyID.Hex()},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *ComplaintRepositoryImpl) IDsByCompany(ctx context.Context, companyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"companyId": companyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *ComplaintRepositoryImpl) DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"companyId": companyID})
	if err != nil {
		return 0, err
	}
	if _, err := r.counters.DeleteOne(ctx, bson.M{"_id": "complaint_" + companyID.Hex()}); err != nil {
		return res.DeletedCount, err
	}
	return res.DeletedCount, nil
}

func (r *ComplaintRepositoryImpl) Stats(ctx context.Context, companyID *primitive.ObjectID) (*Stats, error) {
	match := bson.M{}
	if companyID != nil {
		match["companyId"] = *companyID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "count"}},
			"byStatus": bson.A{
				bson.M{"$group": bson.M{"_id": "$status_of_client", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.M{"_id": 1}},
			},
			"byPriority": bson.A{
				bson.M{"$group": bson.M{"_id": "$priority", "count": bson.M{"$sum": 1}}},
				bson.M{"$sort": bson.M{"_id": 1}},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
		ByStatus   []Count `bson:"byStatus"`
		ByPriority []Count `bson:"byPriority"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: []Count{}, ByPriority: []Count{}}
	if len(rows) == 0 {
		return stats, nil
	}
	if len(rows[0].Total) > 0 {
		stats.Total = rows[0].Total[0].Count
	}
	stats.ByStatus = append(stats.ByStatus, rows[0].ByStatus...)
	stats.ByPriority = append(stats.ByPriority, rows[0].ByPriority...)
	return stats, nil
}

func (r *ComplaintRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "complaintId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "companyId", Value: 1}, {Key: "status_of_client", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) ([]Note, error)
	DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error)
}

type NoteRepositoryImpl struct {
	collection *mongo.Collection
}

func NewNoteRepository(db *database.MongodbDB) NoteRepository {
	return &NoteRepositoryImpl{
		collection: db.DB.Collection("notes"),
	}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *Note) error {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	note.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, note)
	return err
}

func (r *NoteRepositoryImpl) FindByComplaint(ctx context.Context, complaintID primitive.ObjectID) ([]Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"complaintId": complaintID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepositoryImpl) DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error) {
	if len(complaintIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"complaintId": bson.M{"$in": complaintIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
