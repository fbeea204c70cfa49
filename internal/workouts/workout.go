package workouts

import (
	"time"
)

type Workout struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userId"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  int       `json:"caloriesBurned"`
	Notes           string    `json:"notes,omitempty"`
	CompletedAt     time.Time `json:"completedAt"`
}

type WorkoutParams struct {
	UserID int
	Type   string
	From   *time.Time
	To     *time.Time
}

type ListParams struct {
	WorkoutParams
	Page int
	Size int
}

// midnightOf truncates t to the start of its calendar day,
// in the timezone the timestamp itself carries.
func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StreakAlreadyCountedToday reports whether the streak has already been
// evaluated for the calendar day of completedAt, i.e. the profile's last
// workout falls on that day or later. Additional same-day logs must leave
// the streak untouched.
func StreakAlreadyCountedToday(lastWorkoutAt *time.Time, completedAt time.Time) bool {
	if lastWorkoutAt == nil {
		return false
	}
	return !lastWorkoutAt.In(completedAt.Location()).Before(midnightOf(completedAt))
}

// NextStreak computes the consecutive-day streak value after a workout
// completed at completedAt. priorWorkoutAt is the most recent workout
// strictly before the calendar day of completedAt (nil when there is none).
// A one day gap extends the streak, anything longer restarts it at 1.
func NextStreak(currentStreak int, priorWorkoutAt *time.Time, completedAt time.Time) (streak int, reset bool) {
	if priorWorkoutAt == nil {
		return 1, false
	}

	dayMidnight := midnightOf(completedAt)
	priorMidnight := midnightOf(priorWorkoutAt.In(completedAt.Location()))
	daysGap := int(dayMidnight.Sub(priorMidnight) / (24 * time.Hour))

	if daysGap == 1 {
		if currentStreak < 1 {
			currentStreak = 1
		}
		return currentStreak + 1, false
	}
	return 1, true
}
