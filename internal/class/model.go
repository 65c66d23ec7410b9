package class

import (
	"fmt"
	"strconv"
	"strings"
)

// Class is a scheduled fitness class. Instructor is the owning member's
// username; the schema does not enforce it as a foreign key.
type Class struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Instructor string `db:"instructor" json:"instructor"`
	Capacity   int    `db:"capacity" json:"capacity"`
	Day        string `db:"day" json:"day"`
	StartTime  string `db:"start_time" json:"start_time"`
	EndTime    string `db:"end_time" json:"end_time"`
}

// WithOpenSpots is a class read joined against live enrollments. OpenSpots is
// always derived, never stored.
type WithOpenSpots struct {
	Class
	OpenSpots int `db:"open_spots" json:"open_spots"`
}

// View is what the rendering layer receives: the class plus 12-hour display
// times.
type View struct {
	WithOpenSpots
	StartDisplay string `json:"start_display" example:"9:00 AM"`
	EndDisplay   string `json:"end_display" example:"5:30 PM"`
}

func (c WithOpenSpots) View() View {
	return View{
		WithOpenSpots: c,
		StartDisplay:  Format12Hour(c.StartTime),
		EndDisplay:    Format12Hour(c.EndTime),
	}
}

func Views(classes []WithOpenSpots) []View {
	views := make([]View, 0, len(classes))
	for _, c := range classes {
		views = append(views, c.View())
	}
	return views
}

// Format12Hour renders a 24-hour "HH:MM" as "H:MM AM/PM". Unparseable input
// comes back unchanged.
func Format12Hour(t string) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return t
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return t
	}
	mins := parts[1]

	switch {
	case hour == 0:
		return fmt.Sprintf("12:%s AM", mins)
	case hour < 12:
		return fmt.Sprintf("%d:%s AM", hour, mins)
	case hour == 12:
		return fmt.Sprintf("12:%s PM", mins)
	default:
		return fmt.Sprintf("%d:%s PM", hour-12, mins)
	}
}

type CreateRequest struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type UpdateRequest struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
