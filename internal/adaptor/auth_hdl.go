package adaptor

import (
	"net/http"

	"advance-auth/internal/data/entity"
	"advance-auth/internal/dto/request"
	"advance-auth/internal/usecase"
	"advance-auth/pkg/utils"

	"go.uber.org/zap"
)

const (
	MsgRegistered       = "Registered successfully"
	MsgLoggedIn         = "LoggedIn successfully"
	MsgLoggedOut        = "Logged out successfully"
	MsgAlreadyVerified  = "Account already verified"
	MsgVerifyOTPSent    = "Verification OTP sent successfully"
	MsgEmailVerified    = "Email verified successfully"
	MsgAuthenticated    = "authenticated"
	MsgResetOTPSent     = "Reset OTP sent successfully"
	MsgPasswordReset    = "Password has been reset successfully"
	MsgInvalidBody      = "Invalid request body"
	msgNotAuthenticated = "Not Authorized. Login Again"
)

type AuthHandler struct {
	service usecase.AuthService
	cookie  CookieConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		log:     log,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseFailure(w, MsgInvalidBody, nil)
		return
	}

	auth, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "register")
		return
	}

	utils.SetSessionCookie(w, auth.Token, h.cookie.MaxAge, h.cookie.Production)
	utils.ResponseSuccess(w, MsgRegistered)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseFailure(w, MsgInvalidBody, nil)
		return
	}

	auth, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "login")
		return
	}

	utils.SetSessionCookie(w, auth.Token, h.cookie.MaxAge, h.cookie.Production)
	utils.ResponseSuccess(w, MsgLoggedIn)
}

// Logout handles POST /api/auth/logout. The cookie is cleared whether or not
// the caller still holds a valid session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearSessionCookie(w, h.cookie.Production)

	var session entity.Session
	if s, ok := utils.GetSessionFromContext(r.Context()); ok {
		session = entity.Session{TokenID: s.TokenID, UserID: s.UserID, ExpiresAt: s.ExpiresAt}
	}

	if err := h.service.Logout(r.Context(), session); err != nil {
		handleServiceError(h.log, w, err, "logout")
		return
	}

	utils.ResponseSuccess(w, MsgLoggedOut)
}

// SendVerifyOTP handles POST /api/auth/send-verify-otp
func (h *AuthHandler) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseFailure(w, msgNotAuthenticated, nil)
		return
	}

	alreadyVerified, err := h.service.SendVerifyOTP(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "send verify OTP")
		return
	}

	if alreadyVerified {
		utils.ResponseSuccess(w, MsgAlreadyVerified)
		return
	}
	utils.ResponseSuccess(w, MsgVerifyOTPSent)
}

// VerifyEmail handles POST /api/auth/verify-email. A logged-in caller always
// verifies their own account.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyEmailRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseFailure(w, MsgInvalidBody, nil)
		return
	}

	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		req.UserID = userID
	}

	if err := h.service.VerifyEmail(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "verify email")
		return
	}

	utils.ResponseSuccess(w, MsgEmailVerified)
}

// IsAuthenticated handles GET|POST /api/auth/is-authenticated. Reaching it
// means the auth middleware accepted the session.
func (h *AuthHandler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, MsgAuthenticated)
}

// SendResetOTP handles POST /api/auth/send-reset-otp
func (h *AuthHandler) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendResetOTPRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseFailure(w, MsgInvalidBody, nil)
		return
	}

	if err := h.service.SendResetOTP(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "send reset OTP")
		return
	}

	utils.ResponseSuccess(w, MsgResetOTPSent)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		utils.ResponseFailure(w, MsgInvalidBody, nil)
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, MsgPasswordReset)
}
