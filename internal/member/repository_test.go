package member

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"fitcenter/internal/pagination"
	"fitcenter/internal/validate"
)

func setupMemberMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func memberRow(id int, first, last, phone, username, hash string, instructor bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone_number", "username", "password", "instructor"}).
		AddRow(id, first, last, phone, username, hash, instructor)
}

func TestCreateAndFindMember(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	fields := validate.MemberFields{
		FirstName:   "Amy",
		LastName:    "Chen",
		PhoneNumber: "555-555-6666",
		Username:    "achen",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members (first_name, last_name, phone_number, username, password, instructor)")).
		WithArgs("Amy", "Chen", "555-555-6666", "achen", "hash", false).
		WillReturnRows(memberRow(1, "Amy", "Chen", "555-555-6666", "achen", "hash", false))

	m, err := repo.Create(context.Background(), fields, "hash", false)
	require.NoError(t, err)
	require.Equal(t, 1, m.ID)
	require.False(t, m.Instructor)

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs("achen").
		WillReturnRows(memberRow(1, "Amy", "Chen", "555-555-6666", "achen", "hash", false))

	fm, err := repo.FindByUsername(context.Background(), "achen")
	require.NoError(t, err)
	require.Equal(t, "Amy Chen", fm.FullName())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMember_UsernameConflict(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	fields := validate.MemberFields{
		FirstName:   "Amy",
		LastName:    "Chen",
		PhoneNumber: "555-555-6666",
		Username:    "achen",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members")).
		WithArgs("Amy", "Chen", "555-555-6666", "achen", "hash", false).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "members_username_key"})

	_, err := repo.Create(context.Background(), fields, "hash", false)
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestCreateMember_PhoneConflict(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	fields := validate.MemberFields{
		FirstName:   "Amy",
		LastName:    "Chen",
		PhoneNumber: "555-555-6666",
		Username:    "achen2",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO members")).
		WithArgs("Amy", "Chen", "555-555-6666", "achen2", "hash", false).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "members_phone_number_key"})

	_, err := repo.Create(context.Background(), fields, "hash", false)
	require.ErrorIs(t, err, ErrPhoneExists)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM members")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone_number", "username", "password", "instructor"}))

	_, err := repo.FindByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUsernameTaken_ExcludesSelf(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM members WHERE username = $1 AND id <> $2)")).
		WithArgs("achen", 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.UsernameTaken(context.Background(), "achen", 1)
	require.NoError(t, err)
	require.False(t, taken)
}

func TestUpdateMember_UniqueConflictTranslated(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	fields := validate.MemberFields{
		FirstName:   "Amy",
		LastName:    "Chen",
		PhoneNumber: "555-555-6666",
		Username:    "taken",
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members")).
		WithArgs("Amy", "Chen", "555-555-6666", "taken", 1).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "members_username_key"})

	err := repo.Update(context.Background(), 1, fields)
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestCountAndList_WithSearch(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(id) FROM members")).
		WithArgs("chen").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.Count(context.Background(), "chen")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	w := pagination.Window{Limit: 5, Offset: 0, Sort: pagination.Ascending}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY last_name ASC")).
		WithArgs("chen", 5, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone_number"}).
			AddRow(1, "Amy", "Chen", "555-555-6666"))

	entries, err := repo.List(context.Background(), "chen", w)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Chen", entries[0].LastName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NoSearchUsesSortDirection(t *testing.T) {
	repo, mock, close := setupMemberMock(t)
	defer close()

	w := pagination.Window{Limit: 2, Offset: 2, Sort: pagination.Descending}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY last_name DESC")).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "phone_number"}).
			AddRow(4, "Bob", "Iverson", "555-777-8888").
			AddRow(3, "Amy", "Chen", "555-555-6666"))

	entries, err := repo.List(context.Background(), "", w)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
