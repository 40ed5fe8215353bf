package user

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/authn"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

// Handler exposes HTTP endpoints for registration, login and the current identity.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.svc.Register(r.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			utilities.WriteMessage(w, http.StatusConflict, "Email already in use")
		case errors.Is(err, ErrInvalidInput):
			utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		default:
			h.internalError(w, "register failed", err)
		}
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u.PublicView())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	tok, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Debugw("login rejected")
			utilities.WriteMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.internalError(w, "login failed", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, LoginResponse{Token: tok})
}

// Me echoes the identity carried by the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := authn.IdentityFrom(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, MeResponse{ID: id.ID, Email: id.Email, Name: id.Name})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := utilities.DecodeJSON(w, r, v); err != nil {
		h.logger.Debugw("invalid auth payload", "err", err)
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := utilities.Validate(v); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Errorw(msg, "err", err)
	utilities.WriteMessage(w, http.StatusInternalServerError, "internal error")
}
