package user

import (
	"context"
	"net/mail"
	"strings"

	"go-bighil/internal/common/apperr"
	common_models "go-bighil/internal/common/models"
	"go-bighil/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Me(ctx context.Context, actor common_models.Actor) (*User, error)
	Suspend(ctx context.Context, actor common_models.Actor, id string) error
	Contact(ctx context.Context, userID primitive.ObjectID) (name, address string, err error)
}

type UserServiceImpl struct {
	UserRepo UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, logger *zap.Logger) UserService {
	return &UserServiceImpl{
		UserRepo: userRepo,
		logger:   logger,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Downstream("failed to hash password", err)
	}

	user := &User{
		Name:     name,
		Email:    in.Email,
		Password: hashed,
		Status:   StatusActive,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("userId", user.ID.Hex()))
	return user, nil
}

func (s *UserServiceImpl) Me(ctx context.Context, actor common_models.Actor) (*User, error) {
	if actor.Kind() != common_models.ActorKindUser {
		return nil, apperr.Forbidden("not a user account")
	}
	return s.UserRepo.FindByID(ctx, actor.ID)
}

// Suspend blocks further logins. Only the platform operator may do it.
func (s *UserServiceImpl) Suspend(ctx context.Context, actor common_models.Actor, id string) error {
	if actor.Kind() != common_models.ActorKindBighil {
		return apperr.Forbidden("only the platform operator can suspend users")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("invalid user id")
	}
	if err := s.UserRepo.UpdateStatus(ctx, oid, StatusSuspended); err != nil {
		return err
	}
	s.logger.Info("user suspended", zap.String("userId", id), zap.String("actorId", actor.ID.Hex()))
	return nil
}

// Contact returns the name and address outbound complaint email goes to.
func (s *UserServiceImpl) Contact(ctx context.Context, userID primitive.ObjectID) (string, string, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return user.Name, user.Email, nil
}
