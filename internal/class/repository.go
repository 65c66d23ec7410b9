package class

import (
	"context"
	"database/sql"
	"errors"

	"fitcenter/internal/db"
	"fitcenter/internal/logger"
	"fitcenter/internal/metrics"
	"fitcenter/internal/pagination"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("class not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, instructor string, req CreateRequest) (*Class, error) {
	query := `
		INSERT INTO classes (name, instructor, capacity, day, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, instructor, capacity, day, start_time, end_time
	`

	var c Class
	err := r.db.GetContext(ctx, &c, query,
		req.Name, instructor, req.Capacity, req.Day, req.StartTime, req.EndTime,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateRequest) error {
	query := `
		UPDATE classes
		SET name = $1, capacity = $2, day = $3, start_time = $4, end_time = $5
		WHERE id = $6
	`

	_, err := r.db.ExecContext(ctx, query,
		req.Name, req.Capacity, req.Day, req.StartTime, req.EndTime, id,
	)
	return err
}

func (r *repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}

func (r *repository) GetByID(ctx context.Context, id int) (*WithOpenSpots, error) {
	query := `
		SELECT c.id, c.name, c.instructor, c.capacity, c.day, c.start_time, c.end_time,
		       (c.capacity - COUNT(cm.classes_id)) AS open_spots
		FROM classes AS c
		LEFT JOIN classes_members AS cm ON c.id = cm.classes_id
		WHERE c.id = $1
		GROUP BY c.id
	`

	var c WithOpenSpots
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	FlagIfOversold(&c)
	return &c, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, id)
}

func (r *repository) InstructorUsername(ctx context.Context, id int) (string, error) {
	var instructor string
	err := r.db.GetContext(ctx, &instructor, `SELECT instructor FROM classes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return instructor, err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(id) FROM classes`)
	return count, err
}

func (r *repository) List(ctx context.Context, w pagination.Window) ([]WithOpenSpots, error) {
	query := `
		SELECT c.id, c.name, c.instructor, c.capacity, c.day, c.start_time, c.end_time,
		       (c.capacity - COUNT(cm.classes_id)) AS open_spots
		FROM classes AS c
		LEFT JOIN classes_members AS cm ON c.id = cm.classes_id
		GROUP BY c.id
		ORDER BY c.name ` + w.Sort.SQL() + `
		LIMIT $1 OFFSET $2
	`

	var classes []WithOpenSpots
	err := r.db.SelectContext(ctx, &classes, query, w.Limit, w.Offset)
	if err != nil {
		return nil, err
	}

	for i := range classes {
		FlagIfOversold(&classes[i])
	}
	return classes, nil
}

func (r *repository) ListByInstructor(ctx context.Context, username string) ([]WithOpenSpots, error) {
	query := `
		SELECT c.id, c.name, c.instructor, c.capacity, c.day, c.start_time, c.end_time,
		       (c.capacity - COUNT(cm.classes_id)) AS open_spots
		FROM classes AS c
		LEFT JOIN classes_members AS cm ON c.id = cm.classes_id
		WHERE c.instructor = $1
		GROUP BY c.id
		ORDER BY c.name ASC
	`

	var classes []WithOpenSpots
	err := r.db.SelectContext(ctx, &classes, query, username)
	if err != nil {
		return nil, err
	}

	for i := range classes {
		FlagIfOversold(&classes[i])
	}
	return classes, nil
}

// FlagIfOversold clamps a negative open-spot count before it reaches callers.
// Enrollment beyond capacity is a consistency bug, so it is loudly flagged,
// not silently absorbed. Every read that derives open_spots goes through it.
func FlagIfOversold(c *WithOpenSpots) {
	if c.OpenSpots < 0 {
		logger.Errorf("class %d (%s) has %d enrollments over capacity %d",
			c.ID, c.Name, -c.OpenSpots, c.Capacity)
		metrics.RecordCapacityInconsistency()
		c.OpenSpots = 0
	}
}
