package enrollment

import (
	"context"
	"errors"

	"fitcenter/internal/class"
	"fitcenter/internal/logger"
	"fitcenter/internal/metrics"
	"fitcenter/internal/pagination"
)

var ErrInstructorEnroll = errors.New("instructor cannot enroll in own class")

const (
	MsgAlreadyEnrolled  = "You are already enrolled in this class."
	MsgInstructorEnroll = "The instructor can not enroll in the class."
	MsgClassFull        = "This class has no more open spots left."
	MsgNotEnrolled      = "You are not enrolled in this class."
)

type Service interface {
	Enroll(ctx context.Context, classID, memberID int, username string) (*class.WithOpenSpots, error)
	Drop(ctx context.Context, classID, memberID int) (*class.WithOpenSpots, error)
	Roster(ctx context.Context, classID int, req pagination.Request) ([]RosterEntry, *pagination.Window, error)
	ClassesFor(ctx context.Context, memberID int, req pagination.Request) ([]class.WithOpenSpots, *pagination.Window, error)
}

type service struct {
	repo      Repository
	classRepo class.Repository
}

func NewService(repo Repository, classRepo class.Repository) Service {
	return &service{
		repo:      repo,
		classRepo: classRepo,
	}
}

// Enroll moves the (member, class) pair from Not Enrolled to Enrolled.
// Preconditions run in order, first failure wins: not already enrolled, not
// the class's own instructor, a spot open. The capacity check here is only a
// fast path; the repository re-validates it inside the insert transaction so
// concurrent callers cannot oversell the last spot.
func (s *service) Enroll(ctx context.Context, classID, memberID int, username string) (*class.WithOpenSpots, error) {
	c, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.repo.IsEnrolled(ctx, classID, memberID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		metrics.RecordEnrollment("already_enrolled")
		return nil, ErrAlreadyEnrolled
	}

	if username == c.Instructor {
		metrics.RecordEnrollment("instructor")
		return nil, ErrInstructorEnroll
	}

	if c.OpenSpots <= 0 {
		metrics.RecordEnrollment("full")
		return nil, ErrClassFull
	}

	if err := s.repo.Enroll(ctx, classID, memberID); err != nil {
		switch {
		case errors.Is(err, ErrClassFull):
			metrics.RecordEnrollment("full")
		case errors.Is(err, ErrAlreadyEnrolled):
			metrics.RecordEnrollment("already_enrolled")
		}
		return nil, err
	}

	metrics.RecordEnrollment("enrolled")
	logger.Infof("member %d enrolled in class %d", memberID, classID)
	return c, nil
}

// Drop removes the enrollment row. The only precondition is that the member
// is currently enrolled; the delete itself reports that, so there is no
// check-then-act gap.
func (s *service) Drop(ctx context.Context, classID, memberID int) (*class.WithOpenSpots, error) {
	c, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Drop(ctx, classID, memberID); err != nil {
		return nil, err
	}

	metrics.RecordDrop()
	logger.Infof("member %d dropped class %d", memberID, classID)
	return c, nil
}

// Roster lists one page of a class's enrolled members, sorted by last name.
func (s *service) Roster(ctx context.Context, classID int, req pagination.Request) ([]RosterEntry, *pagination.Window, error) {
	total, err := s.repo.RosterCount(ctx, classID)
	if err != nil {
		return nil, nil, err
	}

	w, err := pagination.Resolve(req, total)
	if err != nil {
		return nil, nil, err
	}

	roster, err := s.repo.Roster(ctx, classID, *w)
	if err != nil {
		return nil, nil, err
	}

	return roster, w, nil
}

// ClassesFor lists one page of a member's enrolled classes, sorted by name.
func (s *service) ClassesFor(ctx context.Context, memberID int, req pagination.Request) ([]class.WithOpenSpots, *pagination.Window, error) {
	total, err := s.repo.ClassCountFor(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}

	w, err := pagination.Resolve(req, total)
	if err != nil {
		return nil, nil, err
	}

	classes, err := s.repo.ClassesFor(ctx, memberID, *w)
	if err != nil {
		return nil, nil, err
	}

	return classes, w, nil
}
