package company

import (
	"context"
	"regexp"
	"strings"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DependentPurger removes records that hang off complaints.
type DependentPurger interface {
	DeleteByComplaints(ctx context.Context, complaintIDs []primitive.ObjectID) (int64, error)
}

// ComplaintIndex is the slice of the complaint store a cascade delete needs.
type ComplaintIndex interface {
	IDsByCompany(ctx context.Context, companyID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteByCompany(ctx context.Context, companyID primitive.ObjectID) (int64, error)
}

type CompanyService interface {
	Create(ctx context.Context, actor common_models.Actor, in CreateCompanyInput) (*Company, error)
	Get(ctx context.Context, actor common_models.Actor, id string) (*Company, error)
	List(ctx context.Context, actor common_models.Actor) ([]Company, error)
	Delete(ctx context.Context, actor common_models.Actor, id string) (*PurgeReport, error)
	CreateAdmin(ctx context.Context, actor common_models.Actor, companyID string, in CreateAdminInput) (*Admin, error)
	ListAdmins(ctx context.Context, actor common_models.Actor, companyID string) ([]Admin, error)
	Prefix(ctx context.Context, companyID primitive.ObjectID) (string, error)
	ResolveAdmins(ctx context.Context, companyID primitive.ObjectID, roles []common_models.AdminRole) ([]common_models.Audience, error)
}

type CompanyServiceImpl struct {
	companies  CompanyRepository
	admins     AdminRepository
	complaints ComplaintIndex
	purgers    []DependentPurger
	logger     *zap.Logger
}

func NewCompanyService(
	companies CompanyRepository,
	admins AdminRepository,
	complaints ComplaintIndex,
	purgers []DependentPurger,
	logger *zap.Logger,
) CompanyService {
	return &CompanyServiceImpl{
		companies:  companies,
		admins:     admins,
		complaints: complaints,
		purgers:    purgers,
		logger:     logger,
	}
}

var prefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,6}$`)

func (s *CompanyServiceImpl) Create(ctx context.Context, actor common_models.Actor, in CreateCompanyInput) (*Company, error) {
	if actor.Kind() != common_models.ActorKindBighil {
		return nil, apperr.Forbidden("only the platform operator can register companies")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("company name is required")
	}

	prefix := strings.ToUpper(strings.TrimSpace(in.Prefix))
	if prefix == "" {
		prefix = utils.TenantPrefix(name)
	}
	if !prefixPattern.MatchString(prefix) {
		return nil, apperr.Validation("prefix must be up to 6 letters or digits")
	}

	company := &Company{
		Name:   name,
		Prefix: prefix,
		Email:  strings.ToLower(strings.TrimSpace(in.Email)),
		Active: true,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, apperr.Downstream("failed to create company", err)
	}

	s.logger.Info("company created",
		zap.String("companyId", company.ID.Hex()),
		zap.String("prefix", company.Prefix),
		zap.String("actorId", actor.ID.Hex()),
	)
	return company, nil
}

func (s *CompanyServiceImpl) Get(ctx context.Context, actor common_models.Actor, id string) (*Company, error) {
	companyID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid company id")
	}
	if actor.Kind() != common_models.ActorKindBighil && actor.CompanyID != companyID {
		return nil, apperr.Forbidden("company belongs to another tenant")
	}
	return s.companies.FindByID(ctx, companyID)
}

func (s *CompanyServiceImpl) List(ctx context.Context, actor common_models.Actor) ([]Company, error) {
	if actor.Kind() != common_models.ActorKindBighil {
		return nil, apperr.Forbidden("only the platform operator can list companies")
	}
	return s.companies.List(ctx)
}

// Delete removes a company and everything filed against it. Dependents go
// first so a failure part-way leaves complaints that can be purged again.
func (s *CompanyServiceImpl) Delete(ctx context.Context, actor common_models.Actor, id string) (*PurgeReport, error) {
	if actor.Kind() != common_models.ActorKindBighil {
		return nil, apperr.Forbidden("only the platform operator can delete companies")
	}
	companyID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Validation("invalid company id")
	}
	if _, err := s.companies.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	complaintIDs, err := s.complaints.IDsByCompany(ctx, companyID)
	if err != nil {
		return nil, apperr.Downstream("failed to list company complaints", err)
	}

	report := &PurgeReport{}
	if len(complaintIDs) > 0 {
		for _, p := range s.purgers {
			n, err := p.DeleteByComplaints(ctx, complaintIDs)
			if err != nil {
				return nil, apperr.Downstream("failed to purge complaint records", err)
			}
			report.Dependents += n
		}
	}

	if report.Complaints, err = s.complaints.DeleteByCompany(ctx, companyID); err != nil {
		return nil, apperr.Downstream("failed to delete complaints", err)
	}
	if report.Admins, err = s.admins.DeleteByCompany(ctx, companyID); err != nil {
		return nil, apperr.Downstream("failed to delete admins", err)
	}
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return nil, err
	}

	s.logger.Info("company purged",
		zap.String("companyId", companyID.Hex()),
		zap.Int64("complaints", report.Complaints),
		zap.Int64("dependents", report.Dependents),
		zap.Int64("admins", report.Admins),
	)
	return report, nil
}

// CreateAdmin is open to the platform operator and to the tenant's own SUPER ADMIN.
func (s *CompanyServiceImpl) CreateAdmin(ctx context.Context, actor common_models.Actor, companyID string, in CreateAdminInput) (*Admin, error) {
	cid, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, apperr.Validation("invalid company id")
	}
	if !canManage(actor, cid) {
		return nil, apperr.Forbidden("not allowed to manage this company's admins")
	}
	if !common_models.IsAdminRole(string(in.Role)) {
		return nil, apperr.Validation("unknown admin role")
	}
	if strings.TrimSpace(in.Email) == "" || len(in.Password) < 8 {
		return nil, apperr.Validation("email and a password of at least 8 characters are required")
	}
	if _, err := s.companies.FindByID(ctx, cid); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Downstream("failed to hash password", err)
	}

	admin := &Admin{
		CompanyID: cid,
		Name:      strings.TrimSpace(in.Name),
		Email:     in.Email,
		Password:  hashed,
		Role:      in.Role,
		Active:    true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin created",
		zap.String("companyId", cid.Hex()),
		zap.String("adminId", admin.ID.Hex()),
		zap.String("role", string(admin.Role)),
	)
	return admin, nil
}

func (s *CompanyServiceImpl) ListAdmins(ctx context.Context, actor common_models.Actor, companyID string) ([]Admin, error) {
	cid, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, apperr.Validation("invalid company id")
	}
	if !canManage(actor, cid) {
		return nil, apperr.Forbidden("not allowed to view this company's admins")
	}
	return s.admins.ListByCompany(ctx, cid)
}

func canManage(actor common_models.Actor, companyID primitive.ObjectID) bool {
	if actor.Kind() == common_models.ActorKindBighil {
		return true
	}
	return actor.Role == string(common_models.RoleSuperAdmin) && actor.CompanyID == companyID
}

// Prefix returns the complaint id prefix of an active company.
func (s *CompanyServiceImpl) Prefix(ctx context.Context, companyID primitive.ObjectID) (string, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	if !company.Active {
		return "", apperr.Validation("company is not accepting complaints")
	}
	return company.Prefix, nil
}

func (s *CompanyServiceImpl) ResolveAdmins(ctx context.Context, companyID primitive.ObjectID, roles []common_models.AdminRole) ([]common_models.Audience, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	return s.admins.FindAudience(ctx, companyID, roles)
}
