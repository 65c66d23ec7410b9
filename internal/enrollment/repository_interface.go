package enrollment

import (
	"context"

	"fitcenter/internal/class"
	"fitcenter/internal/pagination"
)

type Repository interface {
	Enroll(ctx context.Context, classID, memberID int) error
	Drop(ctx context.Context, classID, memberID int) error
	IsEnrolled(ctx context.Context, classID, memberID int) (bool, error)
	RosterCount(ctx context.Context, classID int) (int, error)
	Roster(ctx context.Context, classID int, w pagination.Window) ([]RosterEntry, error)
	ClassCountFor(ctx context.Context, memberID int) (int, error)
	ClassesFor(ctx context.Context, memberID int, w pagination.Window) ([]class.WithOpenSpots, error)
}
