package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"advance-auth/internal/usecase"
	"advance-auth/pkg/apperror"
	"advance-auth/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth *AuthHandler
	User *UserHandler
}

// CookieConfig decides the session cookie's attributes.
type CookieConfig struct {
	Production bool
	MaxAge     time.Duration
}

func NewHandler(service *usecase.Service, cookie CookieConfig, log *zap.Logger) *Handler {
	return &Handler{
		Auth: NewAuthHandler(service.Auth, cookie, log),
		User: NewUserHandler(service.User, log),
	}
}

// decodeBody treats an empty body as an empty request so that required-field
// validation produces the usual message.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleServiceError writes the failure envelope for err. Business failures
// are logged at Warn by the usecase; only internal ones are logged here.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var ae *apperror.Error
	if !errors.As(err, &ae) || ae.Kind() == apperror.KindInternal {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseFailure(w, apperror.MessageOf(err), nil)
		return
	}

	log.Debug(operation+" rejected",
		zap.String("kind", ae.Kind().String()),
		zap.String("message", ae.Message()),
	)

	var fields any
	if f := ae.Fields(); len(f) > 0 {
		fields = f
	}
	utils.ResponseFailure(w, ae.Message(), fields)
}
