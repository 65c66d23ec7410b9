package class

import (
	"context"

	"fitcenter/internal/pagination"
)

type Repository interface {
	Create(ctx context.Context, instructor string, req CreateRequest) (*Class, error)
	Update(ctx context.Context, id int, req UpdateRequest) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*WithOpenSpots, error)
	Exists(ctx context.Context, id int) (bool, error)
	InstructorUsername(ctx context.Context, id int) (string, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, w pagination.Window) ([]WithOpenSpots, error)
	ListByInstructor(ctx context.Context, username string) ([]WithOpenSpots, error)
}
