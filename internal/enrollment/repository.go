package enrollment

import (
	"context"
	"database/sql"
	"errors"

	"fitcenter/internal/class"
	"fitcenter/internal/db"
	"fitcenter/internal/pagination"

	"github.com/jmoiron/sqlx"
)

var (
	ErrClassFull       = errors.New("class has no open spots")
	ErrAlreadyEnrolled = errors.New("member already enrolled in class")
	ErrNotEnrolled     = errors.New("member not enrolled in class")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

// Enroll inserts the enrollment row as one atomic unit: the class row is
// locked, capacity re-validated against the live count, and only then is the
// row inserted. Concurrent enrollments against a nearly full class serialize
// on the lock, so the store, not the caller, decides the last spot.
func (r *repository) Enroll(ctx context.Context, classID, memberID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.GetContext(ctx, &capacity,
		`SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`, classID)
	if errors.Is(err, sql.ErrNoRows) {
		return class.ErrNotFound
	}
	if err != nil {
		return err
	}

	var enrolled int
	err = tx.GetContext(ctx, &enrolled,
		`SELECT COUNT(*) FROM classes_members WHERE classes_id = $1`, classID)
	if err != nil {
		return err
	}

	if enrolled >= capacity {
		return ErrClassFull
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO classes_members (classes_id, members_id) VALUES ($1, $2)`,
		classID, memberID)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return ErrAlreadyEnrolled
		}
		return err
	}

	return tx.Commit()
}

func (r *repository) Drop(ctx context.Context, classID, memberID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM classes_members WHERE classes_id = $1 AND members_id = $2`,
		classID, memberID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotEnrolled
	}

	return nil
}

func (r *repository) IsEnrolled(ctx context.Context, classID, memberID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM classes_members
			WHERE classes_id = $1 AND members_id = $2
		)
	`
	return db.Exists(ctx, r.db, query, classID, memberID)
}

func (r *repository) RosterCount(ctx context.Context, classID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(id) FROM classes_members WHERE classes_id = $1`, classID)
	return count, err
}

func (r *repository) Roster(ctx context.Context, classID int, w pagination.Window) ([]RosterEntry, error) {
	query := `
		SELECT m.id, m.username, m.first_name, m.last_name
		FROM classes_members AS cm
		JOIN members AS m ON cm.members_id = m.id
		WHERE cm.classes_id = $1
		ORDER BY m.last_name ` + w.Sort.SQL() + `
		LIMIT $2 OFFSET $3
	`

	var roster []RosterEntry
	err := r.db.SelectContext(ctx, &roster, query, classID, w.Limit, w.Offset)
	return roster, err
}

func (r *repository) ClassCountFor(ctx context.Context, memberID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(id) FROM classes_members WHERE members_id = $1`, memberID)
	return count, err
}

func (r *repository) ClassesFor(ctx context.Context, memberID int, w pagination.Window) ([]class.WithOpenSpots, error) {
	query := `
		SELECT c.id, c.name, c.instructor, c.capacity, c.day, c.start_time, c.end_time,
		       (c.capacity - (SELECT COUNT(*) FROM classes_members WHERE classes_id = c.id)) AS open_spots
		FROM classes_members AS cm
		JOIN classes AS c ON c.id = cm.classes_id
		WHERE cm.members_id = $1
		ORDER BY c.name ` + w.Sort.SQL() + `
		LIMIT $2 OFFSET $3
	`

	var classes []class.WithOpenSpots
	err := r.db.SelectContext(ctx, &classes, query, memberID, w.Limit, w.Offset)
	if err != nil {
		return nil, err
	}

	for i := range classes {
		class.FlagIfOversold(&classes[i])
	}
	return classes, nil
}
