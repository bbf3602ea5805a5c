package adaptor

import (
	"net/http"

	"advance-auth/internal/usecase"
	"advance-auth/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// GetUserData handles GET /api/user/data
func (h *UserHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	// Set by the auth middleware
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseFailure(w, msgNotAuthenticated, nil)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get user data")
		return
	}

	utils.ResponseUserData(w, profile)
}
