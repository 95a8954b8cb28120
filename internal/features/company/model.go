package company

import (
	"time"

	common_models "go-bighil/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company is a tenant. Prefix starts every complaint id the tenant issues.
type Company struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Prefix    string             `bson:"prefix" json:"prefix"`
	Email     string             `bson:"email" json:"email"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Admin struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	CompanyID primitive.ObjectID      `bson:"companyId" json:"companyId"`
	Name      string                  `bson:"name" json:"name"`
	Email     string                  `bson:"email" json:"email"`
	Password  string                  `bson:"password" json:"-"`
	Role      common_models.AdminRole `bson:"role" json:"role"`
	Active    bool                    `bson:"active" json:"active"`
	CreatedAt time.Time               `bson:"createdAt" json:"createdAt"`
}

type CreateCompanyInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Prefix string `json:"prefix"`
}

type CreateAdminInput struct {
	Name     string                  `json:"name"`
	Email    string                  `json:"email"`
	Password string                  `json:"password"`
	Role     common_models.AdminRole `json:"role"`
}

// PurgeReport counts what a cascade delete removed.
type PurgeReport struct {
	Complaints int64 `json:"complaints"`
	Dependents int64 `json:"dependents"`
	Admins     int64 `json:"admins"`
}
