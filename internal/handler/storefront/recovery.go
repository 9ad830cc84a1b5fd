package storefront

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

// RecoveryHandler handles email verification and password reset. Neither
// flow needs a session.
type RecoveryHandler struct {
	verification service.EmailVerificationService
	resets       service.PasswordResetService
}

func NewRecoveryHandler(verification service.EmailVerificationService, resets service.PasswordResetService) *RecoveryHandler {
	return &RecoveryHandler{verification: verification, resets: resets}
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Code  string `json:"code" validate:"required,numeric,len=6"`
}

type resetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Code     string `json:"code" validate:"required,numeric,len=6"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// VerifyEmail handles POST /api/auth/verify-email
func (h *RecoveryHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.verification.Verify(r.Context(), req.Email, req.Code); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Email verified", nil)
}

// ResendVerification handles POST /api/auth/verify-email/resend. The reply
// is the same whether or not the email belongs to an account.
func (h *RecoveryHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.verification.Resend(r.Context(), req.Email); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "If the account exists, a new code has been sent", nil)
}

// ForgotPassword handles POST /api/auth/password/forgot
func (h *RecoveryHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.resets.Request(r.Context(), req.Email); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "If the account exists, a reset code has been sent", nil)
}

// ResetPassword handles POST /api/auth/password/reset
func (h *RecoveryHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	err := h.resets.Reset(r.Context(), service.ResetPasswordParams{
		Email:    req.Email,
		Code:     req.Code,
		Password: req.Password,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Password updated. Please sign in again", nil)
}
