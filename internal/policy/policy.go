// Package policy layers role and ownership checks in front of repository
// mutations. Existence runs before any ownership comparison: ownership of a
// nonexistent target cannot be evaluated, and the two failures are reported
// distinctly.
package policy

import (
	"context"
	"errors"
)

var (
	ErrClassNotFound  = errors.New("class not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrNotOwner       = errors.New("acting member is not the class instructor")
	ErrNotSelf        = errors.New("acting member is not the target account")
)

const (
	MsgClassNotFound  = "That class does not exist."
	MsgMemberNotFound = "That member does not exist."
	MsgNotOwner       = "You must be the class instructor to perform this action."
	MsgNotSelf        = "You do not have access to this page"
)

type ClassLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
	InstructorUsername(ctx context.Context, id int) (string, error)
}

type MemberLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type Policy struct {
	classes ClassLookup
	members MemberLookup
}

func New(classes ClassLookup, members MemberLookup) *Policy {
	return &Policy{classes: classes, members: members}
}

func (p *Policy) ClassExists(ctx context.Context, classID int) error {
	exists, err := p.classes.Exists(ctx, classID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrClassNotFound
	}
	return nil
}

func (p *Policy) MemberExists(ctx context.Context, memberID int) error {
	exists, err := p.members.Exists(ctx, memberID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMemberNotFound
	}
	return nil
}

// ClassOwner allows only the instructor whose username matches the class's
// instructor field.
func (p *Policy) ClassOwner(ctx context.Context, classID int, actingUsername string) error {
	if err := p.ClassExists(ctx, classID); err != nil {
		return err
	}

	owner, err := p.classes.InstructorUsername(ctx, classID)
	if err != nil {
		return err
	}
	if owner != actingUsername {
		return ErrNotOwner
	}
	return nil
}

// Self allows only the member acting on their own account. A mismatch is
// access-denied, never not-found.
func (p *Policy) Self(ctx context.Context, targetMemberID, actingMemberID int) error {
	if err := p.MemberExists(ctx, targetMemberID); err != nil {
		return err
	}

	if targetMemberID != actingMemberID {
		return ErrNotSelf
	}
	return nil
}
