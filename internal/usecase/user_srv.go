package usecase

import (
	"context"
	"errors"

	"advance-auth/internal/data/repository"
	"advance-auth/internal/dto/response"
	"advance-auth/pkg/apperror"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserDataResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID string) (*response.UserDataResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		us.log.Warn("Profile requested for missing user", zap.String("user_id", userID))
		return nil, apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
