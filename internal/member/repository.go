package member

import (
	"context"
	"database/sql"
	"errors"

	"fitcenter/internal/db"
	"fitcenter/internal/pagination"
	"fitcenter/internal/validate"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound       = errors.New("member not found")
	ErrUsernameExists = errors.New("username already in use")
	ErrPhoneExists    = errors.New("phone number already in use")
)

const (
	usernameConstraint = "members_username_key"
	phoneConstraint    = "members_phone_number_key"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

// translateUnique maps store-level uniqueness violations onto domain errors
// so a race that slipped past the pre-checks still surfaces as a user-facing
// conflict instead of a raw storage fault.
func translateUnique(err error) error {
	switch {
	case db.IsUniqueViolation(err, usernameConstraint):
		return ErrUsernameExists
	case db.IsUniqueViolation(err, phoneConstraint):
		return ErrPhoneExists
	default:
		return err
	}
}

func (r *repository) Create(ctx context.Context, fields validate.MemberFields, passwordHash string, instructor bool) (*Member, error) {
	query := `
		INSERT INTO members (first_name, last_name, phone_number, username, password, instructor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, first_name, last_name, phone_number, username, password, instructor
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query,
		fields.FirstName, fields.LastName, fields.PhoneNumber, fields.Username,
		passwordHash, instructor,
	)
	if err != nil {
		return nil, translateUnique(err)
	}

	return &m, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Member, error) {
	query := `
		SELECT id, first_name, last_name, phone_number, username, password, instructor
		FROM members
		WHERE id = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*Member, error) {
	query := `
		SELECT id, first_name, last_name, phone_number, username, password, instructor
		FROM members
		WHERE username = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, id)
}

func (r *repository) UsernameTaken(ctx context.Context, username string, excludeMemberID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE username = $1 AND id <> $2)`
	return db.Exists(ctx, r.db, query, username, excludeMemberID)
}

func (r *repository) PhoneTaken(ctx context.Context, phone string, excludeMemberID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE phone_number = $1 AND id <> $2)`
	return db.Exists(ctx, r.db, query, phone, excludeMemberID)
}

func (r *repository) Update(ctx context.Context, id int, fields validate.MemberFields) error {
	query := `
		UPDATE members
		SET first_name = $1, last_name = $2, phone_number = $3, username = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query,
		fields.FirstName, fields.LastName, fields.PhoneNumber, fields.Username, id,
	)
	if err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	return err
}

func (r *repository) Count(ctx context.Context, search string) (int, error) {
	var count int

	if search == "" {
		err := r.db.GetContext(ctx, &count, `SELECT COUNT(id) FROM members`)
		return count, err
	}

	query := `
		SELECT COUNT(id) FROM members
		WHERE first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%'
		   OR username ILIKE '%' || $1 || '%'
	`
	err := r.db.GetContext(ctx, &count, query, search)
	return count, err
}

func (r *repository) List(ctx context.Context, search string, w pagination.Window) ([]DirectoryEntry, error) {
	var entries []DirectoryEntry

	if search == "" {
		query := `
			SELECT id, first_name, last_name, phone_number
			FROM members
			ORDER BY last_name ` + w.Sort.SQL() + `
			LIMIT $1 OFFSET $2
		`
		err := r.db.SelectContext(ctx, &entries, query, w.Limit, w.Offset)
		return entries, err
	}

	query := `
		SELECT id, first_name, last_name, phone_number
		FROM members
		WHERE first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%'
		   OR username ILIKE '%' || $1 || '%'
		ORDER BY last_name ` + w.Sort.SQL() + `
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &entries, query, search, w.Limit, w.Offset)
	return entries, err
}
