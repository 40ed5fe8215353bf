package project

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/authn"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

// Handler exposes the project CRUD endpoints. Every route sits behind authn.Middleware.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// UpsertRequest is the body of both create and update.
type UpsertRequest struct {
	Key         string  `json:"key" validate:"required,max=16"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}

func (req UpsertRequest) input() Input {
	return Input{Key: req.Key, Name: req.Name, Description: req.Description}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, "list projects", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := authn.IdentityFrom(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req UpsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.svc.Create(r.Context(), id.ID, req.input())
	if err != nil {
		h.writeError(w, "create project", err)
		return
	}
	w.Header().Set("Location", "/api/projects/"+p.ID)
	utilities.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := authn.IdentityFrom(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req UpsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.Update(r.Context(), id.ID, r.PathValue("id"), req.input()); err != nil {
		h.writeError(w, "update project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := authn.IdentityFrom(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), id.ID, r.PathValue("id")); err != nil {
		h.writeError(w, "delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := utilities.DecodeJSON(w, r, v); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := utilities.Validate(v); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		utilities.WriteMessage(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, ErrForbidden):
		utilities.WriteMessage(w, http.StatusForbidden, "Only the project owner may do that")
	case errors.Is(err, ErrInvalidInput):
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorw(op+" failed", "err", err)
		utilities.WriteMessage(w, http.StatusInternalServerError, "internal error")
	}
}
