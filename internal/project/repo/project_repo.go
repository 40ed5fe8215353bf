package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/project/entity"
)

const projectColumns = `id, project_key, name, description, owner_id, created_at`

// ProjectRepo provides data access for the projects table.
type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	const q = `INSERT INTO projects (id, project_key, name, description, owner_id, created_at)
		VALUES (:id, :project_key, :name, :description, :owner_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, p); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// List returns every project, newest first.
func (r *ProjectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	out := []*entity.Project{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// GetByID returns sql.ErrNoRows when no project matches.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	var p entity.Project
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists reports whether a project with id exists.
func (r *ProjectRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM projects WHERE id=$1)`, id); err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return ok, nil
}

// UpdateOwned rewrites key, name and description only if ownerID owns the row.
// It returns the number of affected rows.
func (r *ProjectRepo) UpdateOwned(ctx context.Context, p *entity.Project) (int64, error) {
	const q = `UPDATE projects SET project_key=:project_key, name=:name, description=:description
		WHERE id=:id AND owner_id=:owner_id`
	res, err := r.db.NamedExecContext(ctx, q, p)
	if err != nil {
		return 0, fmt.Errorf("update project: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOwned removes the project if ownerID owns it. Issues cascade.
func (r *ProjectRepo) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete project: %w", err)
	}
	return res.RowsAffected()
}
