package company

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CompanyRepositoryImpl struct {
	collection *mongo.Collection
}

func NewCompanyRepository(db *database.MongodbDB) CompanyRepository {
	return &CompanyRepositoryImpl{
		collection: db.DB.Collection("companies"),
	}
}

func (r *CompanyRepositoryImpl) Create(ctx context.Context, company *Company) error {
	if company.ID.IsZero() {
		company.ID = primitive.NewObjectID()
	}
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	_, err := r.collection.InsertOne(ctx, company)
	return err
}

func (r *CompanyRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Company, error) {
	var company Company
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("company")
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) List(ctx context.Context) ([]Company, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	companies := []Company{}
	if err = cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("company")
	}
	return nil
}

type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]Admin, error)
	FindAudience(ctx context.Context, companyID primitive.ObjectID, roles []common_models.AdminRole) ([]common_models.Audience, error)
	DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type AdminRepositoryImpl struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *database.MongodbDB) AdminRepository {
	return &AdminRepositoryImpl{
		collection: db.DB.Collection("admins"),
	}
}

func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	admin.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, admin)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Validation("an admin with this email already exists")
	}
	return err
}

func (r *AdminRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Admin, error) {
	var admin Admin
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("admin")
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("admin")
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) ListByCompany(ctx context.Context, companyID primitive.ObjectID) ([]Admin, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	admins := []Admin{}
	if err = cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminRepositoryImpl) FindAudience(ctx context.Context, companyID primitive.ObjectID, roles []common_models.AdminRole) ([]common_models.Audience, error) {
	filter := bson.M{
		"companyId": companyID,
		"role":      bson.M{"$in": roles},
		"active":    true,
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "role": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	audience := []common_models.Audience{}
	if err = cursor.All(ctx, &audience); err != nil {
		return nil, err
	}
	return audience, nil
}

func (r *AdminRepositoryImpl) DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"companyId": companyID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *AdminRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "companyId", Value: 1}, {Key: "role", Value: 1}}},
	})
	return err
}
