package wire

import (
	"advance-auth/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	auth authGuards,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.With(auth.required).Get("/api/user/data", userHandler.GetUserData)
}
