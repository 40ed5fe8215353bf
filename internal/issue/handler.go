package issue

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/authn"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CreateRequest body of POST /api/issues.
type CreateRequest struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assigneeId" validate:"omitempty,max=32"`
	ProjectID   string     `json:"projectId" validate:"required,max=32"`
	DueDate     *time.Time `json:"dueDate"`
}

// Health is reachable without a token.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "controller": "Issues"})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := authn.IdentityFrom(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CreateRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utilities.Validate(&req); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	issue, err := h.svc.Create(r.Context(), id.ID, CreateInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeError(w, "create issue", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, issue)
}

func (h *Handler) ByProject(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Board(r.Context(), r.PathValue("projectId"))
	if err != nil {
		h.writeError(w, "list issues", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, board)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	issue, err := h.svc.ChangeStatus(r.Context(), r.PathValue("id"), r.PathValue("status"))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			utilities.WriteMessage(w, http.StatusBadRequest, "Invalid status value")
			return
		}
		h.writeError(w, "change issue status", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, issue)
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		utilities.WriteMessage(w, http.StatusBadRequest, "Status must be ToDo, InProgress, or Done")
	case errors.Is(err, ErrInvalidPriority):
		utilities.WriteMessage(w, http.StatusBadRequest, "Priority must be Low, Medium, or High")
	case errors.Is(err, ErrInvalidInput):
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProjectNotFound):
		utilities.WriteMessage(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, ErrNotFound):
		utilities.WriteMessage(w, http.StatusNotFound, "Issue not found")
	default:
		h.logger.Errorw(op+" failed", "err", err)
		utilities.WriteMessage(w, http.StatusInternalServerError, "internal error")
	}
}
