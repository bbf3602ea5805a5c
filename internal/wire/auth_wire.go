package wire

import (
	"net/http"

	"advance-auth/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	auth authGuards,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/api/auth", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}

		// ==================== PUBLIC ROUTES ====================
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/send-reset-otp", authHandler.SendResetOTP)
		r.Post("/reset-password", authHandler.ResetPassword)

		// Session is used when present
		r.With(auth.optional).Post("/logout", authHandler.Logout)
		r.With(auth.optional).Post("/verify-email", authHandler.VerifyEmail)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth.required)

			r.Post("/send-verify-otp", authHandler.SendVerifyOTP)
			r.Get("/is-authenticated", authHandler.IsAuthenticated)
			r.Post("/is-authenticated", authHandler.IsAuthenticated)
			r.Get("/is-auth", authHandler.IsAuthenticated)
			r.Post("/is-auth", authHandler.IsAuthenticated)
		})
	})
}
