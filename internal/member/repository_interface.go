package member

import (
	"context"

	"fitcenter/internal/pagination"
	"fitcenter/internal/validate"
)

type Repository interface {
	Create(ctx context.Context, fields validate.MemberFields, passwordHash string, instructor bool) (*Member, error)
	FindByID(ctx context.Context, id int) (*Member, error)
	FindByUsername(ctx context.Context, username string) (*Member, error)
	Exists(ctx context.Context, id int) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeMemberID int) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeMemberID int) (bool, error)
	Update(ctx context.Context, id int, fields validate.MemberFields) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, search string) (int, error)
	List(ctx context.Context, search string, w pagination.Window) ([]DirectoryEntry, error)
}
