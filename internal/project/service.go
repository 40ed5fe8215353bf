package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/project/entity"
	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrForbidden    = errors.New("not the project owner")
	ErrInvalidInput = errors.New("invalid input")
)

// Store is implemented by *repo.ProjectRepo.
type Store interface {
	Create(ctx context.Context, p *entity.Project) error
	List(ctx context.Context) ([]*entity.Project, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateOwned(ctx context.Context, p *entity.Project) (int64, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (int64, error)
}

// Input carries the client-editable fields of a project.
type Input struct {
	Key         string
	Name        string
	Description *string
}

func (in Input) normalize() (Input, error) {
	in.Key = strings.TrimSpace(in.Key)
	in.Name = strings.TrimSpace(in.Name)
	if in.Key == "" || in.Name == "" {
		return in, fmt.Errorf("%w: key and name are required", ErrInvalidInput)
	}
	return in, nil
}

// Service holds project business rules: anyone may list, only owners may change.
type Service struct {
	repo Store
	now  func() time.Time
}

func NewService(store Store) *Service {
	return &Service{repo: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) List(ctx context.Context) ([]*entity.Project, error) {
	return s.repo.List(ctx)
}

// Create stores a new project owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (*entity.Project, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	p := &entity.Project{
		ID:          utilities.NewKSUID(),
		Key:         in.Key,
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces key, name and description. The owner check and the write
// happen in one statement; a miss is then classified as not found or forbidden.
func (s *Service) Update(ctx context.Context, callerID, id string, in Input) error {
	in, err := in.normalize()
	if err != nil {
		return err
	}
	rows, err := s.repo.UpdateOwned(ctx, &entity.Project{
		ID:          id,
		Key:         in.Key,
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     callerID,
	})
	if err != nil {
		return err
	}
	return s.classifyMiss(ctx, id, rows)
}

// Delete removes the project and, through the foreign key, its issues.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	rows, err := s.repo.DeleteOwned(ctx, id, callerID)
	if err != nil {
		return err
	}
	return s.classifyMiss(ctx, id, rows)
}

func (s *Service) classifyMiss(ctx context.Context, id string, rows int64) error {
	if rows > 0 {
		return nil
	}
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrForbidden
}
