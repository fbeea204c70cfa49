package goals

import (
	"math"
	"time"
)

type Status string

const (
	StatusCompleted  Status = "completed"
	StatusExpired    Status = "expired"
	StatusUpcoming   Status = "upcoming"
	StatusInProgress Status = "in_progress"
)

type Goal struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Type      string    `json:"type"`
	Target    float64   `json:"target"`
	Current   float64   `json:"current"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Evaluation is always derived from the goal and the evaluation time,
// never stored.
type Evaluation struct {
	Percent  float64 `json:"percent"`
	Status   Status  `json:"status"`
	DaysLeft int     `json:"daysLeft"`
}

// Evaluate computes the progress and status of a goal as of the given time.
// Status rules:
//   - completed flag set: Completed, regardless of dates
//   - past endDate: Expired
//   - before startDate: Upcoming
//   - otherwise: InProgress
//
// A goal never auto-completes on reaching its target, completion is an
// explicit user action. DaysLeft goes negative once expired and is for
// display only.
func Evaluate(goal Goal, asOf time.Time) Evaluation {
	percent := 0.0
	if goal.Target != 0 {
		percent = goal.Current / goal.Target * 100
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	status := StatusInProgress
	switch {
	case goal.Completed:
		status = StatusCompleted
	case asOf.After(goal.EndDate):
		status = StatusExpired
	case asOf.Before(goal.StartDate):
		status = StatusUpcoming
	}

	daysLeft := int(math.Ceil(goal.EndDate.Sub(asOf).Hours() / 24))

	return Evaluation{
		Percent:  percent,
		Status:   status,
		DaysLeft: daysLeft,
	}
}
