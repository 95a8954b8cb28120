package auth

import (
	"context"
	"crypto/subtle"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/internal/config"
	"go-bighil/internal/features/company"
	"go-bighil/internal/features/session"
	"go-bighil/internal/features/user"
	"go-bighil/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in user.RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	AdminLogin(ctx context.Context, email, password string) (*AuthResponse, error)
	OperatorLogin(ctx context.Context, email, password string) (*AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

type AuthServiceImpl struct {
	UserService user.UserService
	UserRepo    user.UserRepository
	AdminRepo   company.AdminRepository
	Sessions    session.SessionService
	operator    config.OperatorConfig
	logger      *zap.Logger
}

func NewAuthService(
	userService user.UserService,
	userRepo user.UserRepository,
	adminRepo company.AdminRepository,
	sessions session.SessionService,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &AuthServiceImpl{
		UserService: userService,
		UserRepo:    userRepo,
		AdminRepo:   adminRepo,
		Sessions:    sessions,
		operator:    cfg.Operator,
		logger:      logger,
	}
}

var errInvalidCredentials = apperr.Unauthorized("invalid credentials")

func (s *AuthServiceImpl) Register(ctx context.Context, in user.RegisterInput) (*AuthResponse, error) {
	usr, err := s.UserService.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, usr.ID, common_models.RoleUser, primitive.NilObjectID)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	usr, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(usr.Password, password) {
		return nil, errInvalidCredentials
	}
	if usr.Status == user.StatusSuspended {
		return nil, apperr.Forbidden("account suspended")
	}
	return s.issue(ctx, usr.ID, common_models.RoleUser, primitive.NilObjectID)
}

func (s *AuthServiceImpl) AdminLogin(ctx context.Context, email, password string) (*AuthResponse, error) {
	admin, err := s.AdminRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(admin.Password, password) {
		return nil, errInvalidCredentials
	}
	if !admin.Active {
		return nil, apperr.Forbidden("account inactive")
	}
	return s.issue(ctx, admin.ID, string(admin.Role), admin.CompanyID)
}

// OperatorLogin signs in the platform operator. The operator has no stored
// account, so the session subject is the nil id.
func (s *AuthServiceImpl) OperatorLogin(ctx context.Context, email, password string) (*AuthResponse, error) {
	if s.operator.Email == "" || s.operator.Password == "" {
		return nil, errInvalidCredentials
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.operator.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.operator.Password)) == 1
	if !emailOK || !passOK {
		return nil, errInvalidCredentials
	}
	return s.issue(ctx, primitive.NilObjectID, common_models.RoleBighil, primitive.NilObjectID)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Revoke(ctx, sessionID)
}

func (s *AuthServiceImpl) issue(ctx context.Context, subjectID primitive.ObjectID, role string, companyID primitive.ObjectID) (*AuthResponse, error) {
	actor := common_models.Actor{ID: subjectID, Role: role, CompanyID: companyID}
	sess, err := s.Sessions.Open(ctx, subjectID, actor.Kind())
	if err != nil {
		return nil, err
	}

	companyHex := ""
	if !companyID.IsZero() {
		companyHex = companyID.Hex()
	}
	token, err := utils.GenerateToken(subjectID.Hex(), role, companyHex, sess.ID, s.Sessions.TTL())
	if err != nil {
		return nil, apperr.Downstream("failed to sign token", err)
	}

	s.logger.Info("session opened",
		zap.String("actorId", subjectID.Hex()),
		zap.String("role", role),
		zap.String("sessionId", sess.ID),
	)
	return &AuthResponse{Token: token, Role: role, ExpiresAt: sess.ExpiresAt}, nil
}
