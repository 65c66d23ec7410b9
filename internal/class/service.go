package class

import (
	"context"

	"fitcenter/internal/logger"
	"fitcenter/internal/metrics"
	"fitcenter/internal/pagination"
	"fitcenter/internal/validate"
)

const (
	MsgCreated = "The class has been created."
	MsgUpdated = "The class has been updated."
	MsgDeleted = "The class has been deleted."
)

type Service interface {
	Create(ctx context.Context, instructor string, req CreateRequest) (*Class, error)
	Update(ctx context.Context, id int, req UpdateRequest) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*WithOpenSpots, error)
	List(ctx context.Context, req pagination.Request) ([]WithOpenSpots, *pagination.Window, error)
	TaughtBy(ctx context.Context, username string) ([]WithOpenSpots, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create validates every field and persists the class under the acting
// instructor's username. Ownership and role checks happen upstream.
func (s *service) Create(ctx context.Context, instructor string, req CreateRequest) (*Class, error) {
	if err := validate.Class(req.Name, req.Capacity, req.Day, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, instructor, req)
	if err != nil {
		return nil, err
	}

	metrics.RecordClassCreated()
	logger.Infof("class %q created by %s", c.Name, instructor)
	return c, nil
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) error {
	if err := validate.Class(req.Name, req.Capacity, req.Day, req.StartTime, req.EndTime); err != nil {
		return err
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Get(ctx context.Context, id int) (*WithOpenSpots, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of the schedule, sorted by class name. The list
// query never runs when pagination fails.
func (s *service) List(ctx context.Context, req pagination.Request) ([]WithOpenSpots, *pagination.Window, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	w, err := pagination.Resolve(req, total)
	if err != nil {
		return nil, nil, err
	}

	classes, err := s.repo.List(ctx, *w)
	if err != nil {
		return nil, nil, err
	}

	return classes, w, nil
}

func (s *service) TaughtBy(ctx context.Context, username string) ([]WithOpenSpots, error) {
	return s.repo.ListByInstructor(ctx, username)
}
