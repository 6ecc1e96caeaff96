package score

// Workflow statuses the priority score reads. Any status can be set to any
// other by direct user action; the scorer only reads it, never drives it.
const (
	StatusToComplete = "to-complete"
	StatusInProgress = "in-progress"
	StatusSubmitted  = "submitted"
	StatusInterview  = "interview"
)

// Priority is the ephemeral sort key: urgency of the deadline, quality of the
// fit, and a workflow-status boost. Recomputed on every sort, never stored.
type Priority struct {
	Urgency     int `json:"urgency"`
	Quality     int `json:"quality"`
	StatusBoost int `json:"status_boost"`
	Total       int `json:"total"`
}

// Prio computes the priority score. days is the calendar-day distance to the
// deadline and is only meaningful when hasDeadline is true; compat likewise
// only when hasCompat is true (a record without a compatibility estimate
// scores zero quality, not a guess).
func Prio(days int, hasDeadline bool, compat int, hasCompat bool, status string) Priority {
	p := Priority{
		Urgency:     urgency(days, hasDeadline),
		Quality:     quality(compat, hasCompat),
		StatusBoost: statusBoost(status),
	}
	p.Total = p.Urgency + p.Quality + p.StatusBoost
	return p
}

func urgency(days int, hasDeadline bool) int {
	if !hasDeadline {
		return 10
	}
	switch {
	case days < 0:
		// Overdue beats everything.
		return 40
	case days <= 3:
		return 35
	case days <= 7:
		return 25
	case days <= 14:
		return 15
	default:
		return 5
	}
}

func quality(compat int, hasCompat bool) int {
	if !hasCompat {
		return 0
	}
	switch {
	case compat >= 80:
		return 40
	case compat >= 70:
		return 30
	case compat >= 60:
		return 20
	case compat >= 50:
		return 10
	default:
		return 0
	}
}

func statusBoost(status string) int {
	switch status {
	case StatusInterview:
		return 20
	case StatusSubmitted:
		return 15
	case StatusInProgress:
		return 10
	default:
		return 5
	}
}
