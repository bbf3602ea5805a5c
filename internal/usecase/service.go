package usecase

import (
	"advance-auth/internal/data/repository"
	"advance-auth/pkg/clock"
	"advance-auth/pkg/hash"
	"advance-auth/pkg/mail"
	"advance-auth/pkg/token"
	"advance-auth/pkg/utils"

	"go.uber.org/zap"
)

// Deps are the collaborators shared by the services.
type Deps struct {
	Hasher hash.Hasher
	Tokens token.Issuer
	Mailer mail.Sender
	Clock  clock.Clocker
	NewOTP func() (string, error)
}

type Service struct {
	Auth AuthService
	User UserService
}

func NewService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) *Service {
	return &Service{
		Auth: NewAuthService(repo, config, deps, log),
		User: NewUserService(repo.User, log),
	}
}
