package pagination

import (
	"errors"
	"strconv"
	"strings"
)

const (
	MsgInvalidItemsPerPage = "Not a valid Items Per Page selection."
	MsgPageOutOfRange      = "That page does not exist."
	MsgInvalidSort         = "Not a valid sort direction."
)

// ItemsPerPageOptions is the closed set of page sizes list views accept.
var ItemsPerPageOptions = []int{1, 2, 5, 10}

var ErrInvalidDirection = errors.New("invalid sort direction")

// Direction is a closed sort-order token. It is validated at parse time and
// only its SQL() rendering ever reaches query construction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return "", ErrInvalidDirection
	}
}

func (d Direction) SQL() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Request is the caller-supplied paging state before validation.
type Request struct {
	Page         int
	ItemsPerPage int
	Sort         Direction
}

// Window is a validated paging state a repository can trust.
type Window struct {
	Limit        int
	Offset       int
	Page         int
	ItemsPerPage int
	TotalPages   int
	Sort         Direction
}

// Error carries every paging violation found in one request.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, " ")
}

// TotalPages is 1 for an empty scope, otherwise ceiling(total/ipp).
func TotalPages(totalCount, itemsPerPage int) int {
	if totalCount == 0 {
		return 1
	}
	pages := totalCount / itemsPerPage
	if totalCount%itemsPerPage != 0 {
		pages++
	}
	return pages
}

// ParseQuery builds a Request from raw query-string values. Missing values
// take defaults; non-numeric page or ipp fall through to Resolve, which
// reports them as out-of-range / invalid selections. Only an unknown sort
// token fails here, since no query may be built from it.
func ParseQuery(pageStr, ippStr, sortStr string, defaultIPP int) (Request, error) {
	req := Request{Page: 1, ItemsPerPage: defaultIPP}

	if pageStr != "" {
		req.Page, _ = strconv.Atoi(pageStr)
	}
	if ippStr != "" {
		req.ItemsPerPage, _ = strconv.Atoi(ippStr)
	}

	dir, err := ParseDirection(sortStr)
	if err != nil {
		return Request{}, &Error{Messages: []string{MsgInvalidSort}}
	}
	req.Sort = dir

	return req, nil
}

// Resolve turns a request and the scope's total count into a bounded window.
// Both the items-per-page and page-range checks run; their messages are
// reported together and no window is produced when either fails.
func Resolve(req Request, totalCount int) (*Window, error) {
	var msgs []string

	validIPP := false
	for _, opt := range ItemsPerPageOptions {
		if req.ItemsPerPage == opt {
			validIPP = true
			break
		}
	}
	if !validIPP {
		msgs = append(msgs, MsgInvalidItemsPerPage)
	}

	totalPages := 0
	if validIPP {
		totalPages = TotalPages(totalCount, req.ItemsPerPage)
		if req.Page < 1 || req.Page > totalPages {
			msgs = append(msgs, MsgPageOutOfRange)
		}
	} else if req.Page < 1 {
		msgs = append(msgs, MsgPageOutOfRange)
	}

	if len(msgs) > 0 {
		return nil, &Error{Messages: msgs}
	}

	return &Window{
		Limit:        req.ItemsPerPage,
		Offset:       req.ItemsPerPage * (req.Page - 1),
		Page:         req.Page,
		ItemsPerPage: req.ItemsPerPage,
		TotalPages:   totalPages,
		Sort:         req.Sort,
	}, nil
}
