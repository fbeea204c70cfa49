package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vigortrack/vigortrack/internal/telemetry/metrics"
	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// ErrProfileNotFound signals a data integrity problem: a workout was logged
// for a user whose profile row is missing.
var ErrProfileNotFound = errors.New("profile not found")

// Service owns the streak engine: recording a workout and updating the
// profile's consecutive-day streak happen in one transaction, with the
// profile row locked to serialize concurrent logs of the same user.
type Service struct {
	db      *pgxpool.Pool
	metrics *metrics.Manager
}

func NewService(db *pgxpool.Pool, metrics *metrics.Manager) *Service {
	return &Service{
		db:      db,
		metrics: metrics,
	}
}

// RecordWorkout inserts the workout and recomputes the streak:
//   - no prior workout before the day of completedAt: streak = 1
//   - prior workout exactly one day before: streak + 1
//   - longer gap: streak resets to 1
//   - another workout already logged on the same day: streak unchanged
//
// Either both the workout row and the profile update commit, or neither does.
func (s *Service) RecordWorkout(ctx context.Context, workout Workout) (_ *Workout, streakDays int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", workout.UserID))

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// the row lock serializes streak updates per user, cross-user
	// requests proceed independently
	var currentStreak int
	var lastWorkoutAt *time.Time
	err = tx.QueryRow(ctx, `
		SELECT streak_days, last_workout_at
		FROM profile
		WHERE user_id = $1
		FOR UPDATE;`,
		workout.UserID,
	).Scan(&currentStreak, &lastWorkoutAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrProfileNotFound
		}
		return nil, 0, err
	}

	id, err := insertWorkoutTx(ctx, tx, workout)
	if err != nil {
		return nil, 0, err
	}
	workout.ID = id
	span.SetAttributes(attribute.Int("workout.id", id))

	newLastWorkoutAt := workout.CompletedAt
	if StreakAlreadyCountedToday(lastWorkoutAt, workout.CompletedAt) {
		streakDays = currentStreak
		if lastWorkoutAt.After(workout.CompletedAt) {
			newLastWorkoutAt = *lastWorkoutAt
		}
	} else {
		priorWorkoutAt, latestErr := latestWorkoutBeforeTx(
			ctx, tx, workout.UserID, midnightOf(workout.CompletedAt),
		)
		if latestErr != nil {
			err = latestErr
			return nil, 0, err
		}

		var reset bool
		streakDays, reset = NextStreak(currentStreak, priorWorkoutAt, workout.CompletedAt)
		if reset {
			s.metrics.CounterStreakResets.Inc()
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE profile
		SET streak_days = $1, last_workout_at = $2, updated_at = $3
		WHERE user_id = $4;`,
		streakDays, newLastWorkoutAt, time.Now(), workout.UserID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("update profile streak: %w", err)
	}

	span.SetAttributes(attribute.Int("streak.days", streakDays))
	return &workout, streakDays, nil
}
