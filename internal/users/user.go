package users

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile holds per-user denormalized state, most notably the consecutive-day
// workout streak counter maintained by the workouts service.
type Profile struct {
	UserID        int        `json:"userId"`
	WeightKilos   float64    `json:"weightKilos"`
	HeightCm      float64    `json:"heightCm"`
	StreakDays    int        `json:"streakDays"`
	LastWorkoutAt *time.Time `json:"lastWorkoutAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
