package storefront

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/cookie"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	userService service.UserService
	cookies     *cookie.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService service.UserService, cookies *cookie.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cookies:     cookies,
	}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse exposes the session token once so that non-browser clients
// can use it as a bearer token.
type authResponse struct {
	*domain.AuthResult
	Token string `json:"token"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.userService.Register(r.Context(), service.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, guestToken(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.startSession(w, r, result)
	handler.Created(w, "Account created", authResponse{AuthResult: result, Token: result.SessionToken})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password, guestToken(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.startSession(w, r, result)
	handler.OK(w, "Logged in", authResponse{AuthResult: result, Token: result.SessionToken})
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := domain.SessionTokenFromContext(r.Context()); token != "" {
		if err := h.userService.Logout(r.Context(), token); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}

	h.cookies.ClearSession(w)
	handler.OK(w, "Logged out", nil)
}

// startSession sets the session cookie. The guest cookie is dropped once the
// guest cart has been merged; after a failed merge it is kept so the cart
// stays reachable.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, result *domain.AuthResult) {
	h.cookies.SetSessionWithExpiry(w, result.SessionToken, result.ExpiresAt)
	if guestToken(r) != "" && !result.GuestCartRetained {
		h.cookies.ClearGuestToken(w)
	}
}
