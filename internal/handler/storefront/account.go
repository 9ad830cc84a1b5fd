package storefront

import (
	"net/http"

	"github.com/dukerupert/shopery/internal/cookie"
	"github.com/dukerupert/shopery/internal/handler"
	"github.com/dukerupert/shopery/internal/service"
)

// AccountHandler serves the signed-in user's profile, saved addresses and
// account deactivation.
type AccountHandler struct {
	userService    service.UserService
	accountService service.AccountService
	cookies        *cookie.Config
}

func NewAccountHandler(userService service.UserService, accountService service.AccountService, cookies *cookie.Config) *AccountHandler {
	return &AccountHandler{
		userService:    userService,
		accountService: accountService,
		cookies:        cookies,
	}
}

type updateProfileRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// Me handles GET /api/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Profile retrieved", profile)
}

// UpdateMe handles PATCH /api/me
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), user.ID, service.UpdateProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Profile updated", profile)
}

// Deactivate handles DELETE /api/me. The account stays on record but can no
// longer sign in.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.accountService.Deactivate(r.Context(), user.ID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.cookies.ClearSession(w)
	handler.OK(w, "Account deactivated", nil)
}

type addressRequest struct {
	Label     string `json:"label" validate:"max=50"`
	FullName  string `json:"fullName" validate:"required,max=200"`
	Address1  string `json:"address1" validate:"required,max=255"`
	Address2  string `json:"address2" validate:"max=255"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"required,max=100"`
	Zip       string `json:"zip" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,max=3"`
	Phone     string `json:"phone" validate:"max=30"`
	IsDefault bool   `json:"isDefault"`
}

type addressPatchRequest struct {
	Label     *string `json:"label" validate:"omitempty,max=50"`
	FullName  *string `json:"fullName" validate:"omitempty,min=1,max=200"`
	Address1  *string `json:"address1" validate:"omitempty,min=1,max=255"`
	Address2  *string `json:"address2" validate:"omitempty,max=255"`
	City      *string `json:"city" validate:"omitempty,min=1,max=100"`
	State     *string `json:"state" validate:"omitempty,min=1,max=100"`
	Zip       *string `json:"zip" validate:"omitempty,min=1,max=20"`
	Country   *string `json:"country" validate:"omitempty,min=2,max=3"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	IsDefault *bool   `json:"isDefault"`
}

// ListAddresses handles GET /api/me/addresses
func (h *AccountHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	addresses, err := h.accountService.ListAddresses(r.Context(), user.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Addresses retrieved", addresses)
}

// AddAddress handles POST /api/me/addresses
func (h *AccountHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req addressRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	addr, err := h.accountService.AddAddress(r.Context(), user.ID, service.AddressInput{
		Label:     req.Label,
		FullName:  req.FullName,
		Address1:  req.Address1,
		Address2:  req.Address2,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Created(w, "Address added", addr)
}

// UpdateAddress handles PATCH /api/me/addresses/{id}
func (h *AccountHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req addressPatchRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	addr, err := h.accountService.UpdateAddress(r.Context(), user.ID, id, service.AddressPatch{
		Label:     req.Label,
		FullName:  req.FullName,
		Address1:  req.Address1,
		Address2:  req.Address2,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Address updated", addr)
}

// DeleteAddress handles DELETE /api/me/addresses/{id}
func (h *AccountHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.accountService.DeleteAddress(r.Context(), user.ID, id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, "Address deleted", nil)
}
