package member

import (
	"context"
	"errors"

	"fitcenter/internal/auth"
	"fitcenter/internal/logger"
	"fitcenter/internal/metrics"
	"fitcenter/internal/pagination"
	"fitcenter/internal/validate"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInstructorDelete   = errors.New("instructor accounts are deleted administratively")
)

const (
	MsgInvalidCredentials = "Invalid Username or Password"
	MsgInstructorDelete   = "Instructor accounts can only be deleted by admins."
)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Member, error)
	Login(ctx context.Context, req LoginRequest) (*Member, string, error)
	Get(ctx context.Context, id int) (*Member, error)
	GetByUsername(ctx context.Context, username string) (*Member, error)
	Update(ctx context.Context, id int, req UpdateRequest) (*Member, error)
	Delete(ctx context.Context, id int) error
	Directory(ctx context.Context, search string, req pagination.Request) ([]DirectoryEntry, *pagination.Window, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// Signup creates a non-instructor account. Field checks run first; the store
// still enforces uniqueness, and a racing duplicate comes back as the same
// user-facing message the pre-check would have produced.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*Member, error) {
	fields := validate.MemberFields{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Username:    req.Username,
	}

	if err := validate.NewMember(ctx, s.repo, fields, req.Password, req.VerifyPassword); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.Create(ctx, fields, passwordHash, false)
	if err != nil {
		return nil, translateConflict(err)
	}

	metrics.RecordMemberCreated()
	logger.Infof("member %q signed up", m.Username)
	return m, nil
}

func translateConflict(err error) error {
	switch {
	case errors.Is(err, ErrUsernameExists):
		return &validate.Error{Messages: []string{validate.MsgUsernameTaken}}
	case errors.Is(err, ErrPhoneExists):
		return &validate.Error{Messages: []string{validate.MsgPhoneTaken}}
	default:
		return err
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Member, string, error) {
	m, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(m.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(m.ID, m.Username, m.Instructor, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	return m, token, nil
}

func (s *service) Get(ctx context.Context, id int) (*Member, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*Member, error) {
	return s.repo.FindByUsername(ctx, username)
}

// Update edits name, phone and username. The password is never editable
// through this path. Unchanged fields skip the uniqueness re-check.
func (s *service) Update(ctx context.Context, id int, req UpdateRequest) (*Member, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	currentFields := validate.MemberFields{
		FirstName:   current.FirstName,
		LastName:    current.LastName,
		PhoneNumber: current.PhoneNumber,
		Username:    current.Username,
	}
	updated := validate.MemberFields{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Username:    req.Username,
	}

	if err := validate.UpdateMember(ctx, s.repo, id, currentFields, updated); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, translateConflict(err)
	}

	return s.repo.FindByID(ctx, id)
}

// Delete removes a self-service account. Instructor accounts are blocked;
// they go through an administrative path this service does not expose.
func (s *service) Delete(ctx context.Context, id int) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if m.Instructor {
		return ErrInstructorDelete
	}

	return s.repo.Delete(ctx, id)
}

// Directory lists members for instructors, sorted by last name. The list
// query never runs when pagination fails.
func (s *service) Directory(ctx context.Context, search string, req pagination.Request) ([]DirectoryEntry, *pagination.Window, error) {
	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return nil, nil, err
	}

	w, err := pagination.Resolve(req, total)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.repo.List(ctx, search, *w)
	if err != nil {
		return nil, nil, err
	}

	return entries, w, nil
}
