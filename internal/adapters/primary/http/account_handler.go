package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/lorrc/accounts-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/accounts-backend/internal/auth"
	"github.com/lorrc/accounts-backend/internal/core/ports"
)

// UpdateAccountRequest is the JSON body for PUT /me. The whole record is
// replaced; password is optional and keeps the current credential when
// omitted.
type UpdateAccountRequest struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// AccountHandler handles profile reads and authenticated account
// management.
type AccountHandler struct {
	accounts     ports.AccountService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	accounts ports.AccountService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts:     accounts,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "accounts"),
	}
}

// RegisterPublicRoutes registers the unauthenticated profile route.
func (h *AccountHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/users/{username}", h.HandleProfile)
}

// RegisterMeRoutes registers the authenticated /me routes.
func (h *AccountHandler) RegisterMeRoutes(r chi.Router) {
	r.Get("/", h.HandleMe)
	r.Put("/", h.HandleUpdate)
	r.Delete("/", h.HandleDeactivate)
}

// HandleProfile handles GET /users/{username}. Always the public
// projection; the stored credential never leaves this surface.
func (h *AccountHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.accounts.Profile(r.Context(), username)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// HandleMe handles GET /me for the authenticated account.
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.Profile(r.Context(), claims.Username)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// HandleUpdate handles PUT /me. A changed username renames the account;
// the client must log in again afterwards since the token subject is the
// old name.
func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "BAD_REQUEST",
		})
		return
	}

	user, err := h.accounts.Update(r.Context(), claims.Username, ports.UpdateParams{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// HandleDeactivate handles DELETE /me.
func (h *AccountHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Deactivate(r.Context(), claims.Username); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getClaims extracts and validates user claims from the request context.
func (h *AccountHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
