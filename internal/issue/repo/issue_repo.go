package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/issue/entity"
)

const issueColumns = `id, project_id, title, description, status, priority, assignee_id, reporter_id, created_at, updated_at, due_date`

// IssueRepo provides data access for the issues table.
type IssueRepo struct {
	db *sqlx.DB
}

func NewIssueRepo(db *sqlx.DB) *IssueRepo { return &IssueRepo{db: db} }

// Create inserts the issue. The driver error stays wrapped so callers can
// inspect foreign key violations.
func (r *IssueRepo) Create(ctx context.Context, i *entity.Issue) error {
	const q = `INSERT INTO issues (` + issueColumns + `)
		VALUES (:id, :project_id, :title, :description, :status, :priority, :assignee_id, :reporter_id, :created_at, :updated_at, :due_date)`
	if _, err := r.db.NamedExecContext(ctx, q, i); err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

// ListByProject returns a project's issues, most recently updated first.
func (r *IssueRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Issue, error) {
	const q = `SELECT ` + issueColumns + ` FROM issues WHERE project_id=$1 ORDER BY updated_at DESC`
	out := []*entity.Issue{}
	if err := r.db.SelectContext(ctx, &out, q, projectID); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return out, nil
}

// GetByID returns sql.ErrNoRows when no issue matches.
func (r *IssueRepo) GetByID(ctx context.Context, id string) (*entity.Issue, error) {
	const q = `SELECT ` + issueColumns + ` FROM issues WHERE id=$1`
	var i entity.Issue
	if err := r.db.GetContext(ctx, &i, q, id); err != nil {
		return nil, err
	}
	return &i, nil
}

// UpdateStatus sets status and updated_at and returns the updated row, or
// sql.ErrNoRows when the issue does not exist.
func (r *IssueRepo) UpdateStatus(ctx context.Context, id string, status entity.Status, at time.Time) (*entity.Issue, error) {
	const q = `UPDATE issues SET status=$1, updated_at=$2 WHERE id=$3 RETURNING ` + issueColumns
	var i entity.Issue
	if err := r.db.GetContext(ctx, &i, q, status, at, id); err != nil {
		return nil, err
	}
	return &i, nil
}
