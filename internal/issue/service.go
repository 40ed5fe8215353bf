package issue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/issue/entity"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

var (
	ErrNotFound        = errors.New("issue not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidStatus   = errors.New("status must be ToDo, InProgress, or Done")
	ErrInvalidPriority = errors.New("priority must be Low, Medium, or High")
	ErrInvalidInput    = errors.New("invalid input")
)

// Store is implemented by *repo.IssueRepo.
type Store interface {
	Create(ctx context.Context, i *entity.Issue) error
	ListByProject(ctx context.Context, projectID string) ([]*entity.Issue, error)
	UpdateStatus(ctx context.Context, id string, status entity.Status, at time.Time) (*entity.Issue, error)
}

// CreateInput is what a reporter supplies for a new issue.
type CreateInput struct {
	ProjectID   string
	Title       string
	Description *string
	Status      string
	Priority    string
	AssigneeID  *string
	DueDate     *time.Time
}

type Service struct {
	repo Store
	now  func() time.Time
}

func NewService(store Store) *Service {
	return &Service{repo: store, now: func() time.Time { return time.Now().UTC() }}
}

// Create files an issue reported by reporterID. Empty status and priority
// fall back to ToDo and Medium.
func (s *Service) Create(ctx context.Context, reporterID string, in CreateInput) (*entity.Issue, error) {
	status := entity.Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = entity.StatusToDo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	priority := entity.Priority(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || in.ProjectID == "" {
		return nil, fmt.Errorf("%w: title and projectId are required", ErrInvalidInput)
	}

	now := s.now()
	i := &entity.Issue{
		ID:          utilities.NewKSUID(),
		ProjectID:   in.ProjectID,
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		AssigneeID:  in.AssigneeID,
		ReporterID:  reporterID,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     in.DueDate,
	}
	if in.DueDate != nil {
		d := in.DueDate.UTC()
		i.DueDate = &d
	}
	if err := s.repo.Create(ctx, i); err != nil {
		if constraint, ok := database.ForeignKeyViolation(err); ok {
			switch constraint {
			case "fk_issues_project":
				return nil, ErrProjectNotFound
			case "fk_issues_assignee":
				return nil, fmt.Errorf("%w: assignee does not exist", ErrInvalidInput)
			}
		}
		return nil, err
	}
	return i, nil
}

// Board returns a project's issues grouped by status, each column most
// recently updated first.
func (s *Service) Board(ctx context.Context, projectID string) (entity.Board, error) {
	issues, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return entity.NewBoard(issues), nil
}

// ChangeStatus moves an issue to another column. Any authenticated caller may do this.
func (s *Service) ChangeStatus(ctx context.Context, id, status string) (*entity.Issue, error) {
	st := entity.Status(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}
	i, err := s.repo.UpdateStatus(ctx, id, st, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update issue status: %w", err)
	}
	return i, nil
}
