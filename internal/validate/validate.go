// Package validate holds the field-level rules gating every mutation. Each
// rule returns the user-facing message for a violation, or nothing when the
// field is valid; composite helpers collect every message for a submission
// instead of stopping at the first.
package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const (
	MsgClassName     = "Class name must be at least one character."
	MsgClassSize     = "Class size must be at least 1."
	MsgClassDay      = "Class day must be a weekday (Monday through Friday)."
	MsgTimeFormat    = "Class times must be in 24-hour HH:MM format."
	MsgGymHours      = "Class must start and end during gym hours (8:00 AM to 8:00 PM)."
	MsgTimeOrder     = "Start Time must be earlier than End Time."
	MsgFirstName     = "First name must be at least one character."
	MsgLastName      = "Last name must be at least one character."
	MsgPhoneFormat   = "Phone number must be in the specified format: 123-456-7890"
	MsgPhoneTaken    = "This phone number is associated with a different member."
	MsgUsername      = "Username must be at least one character."
	MsgUsernameTaken = "That username is already in use."
	MsgPasswordLen   = "Password must be at least 7 characters."
	MsgPasswordMatch = "The two password entries do not match."
)

var (
	phoneRe = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	timeRe  = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Error is a rejected submission: every violated rule's message, surfaced
// together. No mutation happens when one of these is returned.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, " ")
}

func asError(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &Error{Messages: msgs}
}

// UniquenessChecker answers whether a candidate value collides with a member
// other than the one being edited. Backed by the member repository; the store
// still enforces the same constraints for racing writers.
type UniquenessChecker interface {
	UsernameTaken(ctx context.Context, username string, excludeMemberID int) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeMemberID int) (bool, error)
}

func ClassName(name string) string {
	if len(strings.TrimSpace(name)) < 1 {
		return MsgClassName
	}
	return ""
}

func ClassSize(size int) string {
	if size <= 0 {
		return MsgClassSize
	}
	return ""
}

func ClassDay(day string) string {
	for _, d := range weekdays {
		if day == d {
			return ""
		}
	}
	return MsgClassDay
}

// ClassTime checks both gym-hours and ordering; both messages can fire on a
// single submission. Hours are compared first, minutes break ties.
func ClassTime(start, end string) []string {
	startHour, startMin, okStart := parseClock(start)
	endHour, endMin, okEnd := parseClock(end)
	if !okStart || !okEnd {
		return []string{MsgTimeFormat}
	}

	var msgs []string

	if startHour < 8 || startHour > 20 || (startHour == 20 && startMin > 0) ||
		endHour < 8 || endHour > 20 || (endHour == 20 && endMin > 0) {
		msgs = append(msgs, MsgGymHours)
	}

	if startHour > endHour || (startHour == endHour && startMin >= endMin) {
		msgs = append(msgs, MsgTimeOrder)
	}

	return msgs
}

func parseClock(s string) (hour, min int, ok bool) {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	fmt.Sscanf(m[1], "%d", &hour)
	fmt.Sscanf(m[2], "%d", &min)
	return hour, min, true
}

func FirstName(name string) string {
	if len(strings.TrimSpace(name)) < 1 {
		return MsgFirstName
	}
	return ""
}

func LastName(name string) string {
	if len(strings.TrimSpace(name)) < 1 {
		return MsgLastName
	}
	return ""
}

// PhoneNumber checks the format first; the uniqueness lookup only runs for a
// well-formed number.
func PhoneNumber(ctx context.Context, checker UniquenessChecker, phone string, excludeMemberID int) (string, error) {
	if !phoneRe.MatchString(phone) {
		return MsgPhoneFormat, nil
	}

	taken, err := checker.PhoneTaken(ctx, phone, excludeMemberID)
	if err != nil {
		return "", err
	}
	if taken {
		return MsgPhoneTaken, nil
	}
	return "", nil
}

// Username checks for presence first; the uniqueness lookup only runs for a
// non-empty name.
func Username(ctx context.Context, checker UniquenessChecker, username string, excludeMemberID int) (string, error) {
	if len(strings.TrimSpace(username)) < 1 {
		return MsgUsername, nil
	}

	taken, err := checker.UsernameTaken(ctx, username, excludeMemberID)
	if err != nil {
		return "", err
	}
	if taken {
		return MsgUsernameTaken, nil
	}
	return "", nil
}

// Password checks length and confirmation independently; both messages can
// fire on a single submission.
func Password(password, confirm string) []string {
	var msgs []string
	if len(password) < 7 {
		msgs = append(msgs, MsgPasswordLen)
	}
	if password != confirm {
		msgs = append(msgs, MsgPasswordMatch)
	}
	return msgs
}

// Class validates a class create/edit submission and collects every message.
func Class(name string, size int, day, start, end string) error {
	var msgs []string

	if msg := ClassName(name); msg != "" {
		msgs = append(msgs, msg)
	}
	if msg := ClassSize(size); msg != "" {
		msgs = append(msgs, msg)
	}
	if msg := ClassDay(day); msg != "" {
		msgs = append(msgs, msg)
	}
	msgs = append(msgs, ClassTime(start, end)...)

	return asError(msgs)
}

// MemberFields is the editable identity of a member.
type MemberFields struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Username    string
}

// NewMember validates a signup submission, including the password pair.
func NewMember(ctx context.Context, checker UniquenessChecker, fields MemberFields, password, confirm string) error {
	var msgs []string

	if msg := FirstName(fields.FirstName); msg != "" {
		msgs = append(msgs, msg)
	}
	if msg := LastName(fields.LastName); msg != "" {
		msgs = append(msgs, msg)
	}

	msg, err := PhoneNumber(ctx, checker, fields.PhoneNumber, 0)
	if err != nil {
		return err
	}
	if msg != "" {
		msgs = append(msgs, msg)
	}

	msg, err = Username(ctx, checker, fields.Username, 0)
	if err != nil {
		return err
	}
	if msg != "" {
		msgs = append(msgs, msg)
	}

	msgs = append(msgs, Password(password, confirm)...)

	return asError(msgs)
}

// UpdateMember validates a self-service edit. A field matching its stored
// value skips the uniqueness re-check so an unchanged username or phone never
// self-rejects.
func UpdateMember(ctx context.Context, checker UniquenessChecker, memberID int, current, updated MemberFields) error {
	var msgs []string

	if msg := FirstName(updated.FirstName); msg != "" {
		msgs = append(msgs, msg)
	}
	if msg := LastName(updated.LastName); msg != "" {
		msgs = append(msgs, msg)
	}

	if updated.PhoneNumber != current.PhoneNumber {
		msg, err := PhoneNumber(ctx, checker, updated.PhoneNumber, memberID)
		if err != nil {
			return err
		}
		if msg != "" {
			msgs = append(msgs, msg)
		}
	} else if !phoneRe.MatchString(updated.PhoneNumber) {
		msgs = append(msgs, MsgPhoneFormat)
	}

	if updated.Username != current.Username {
		msg, err := Username(ctx, checker, updated.Username, memberID)
		if err != nil {
			return err
		}
		if msg != "" {
			msgs = append(msgs, msg)
		}
	} else if len(strings.TrimSpace(updated.Username)) < 1 {
		msgs = append(msgs, MsgUsername)
	}

	return asError(msgs)
}
