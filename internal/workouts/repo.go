package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, duration_minutes, calories_burned, notes, completed_at
		FROM workout
		WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// ListAll returns all of the user's workouts matching the given params.
func (r *Repo) ListAll(ctx context.Context, params WorkoutParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))
	span.SetAttributes(attribute.String("type", params.Type))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, duration_minutes, calories_burned, notes, completed_at
		FROM workout
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR completed_at >= $3)
			AND ($4::timestamptz IS NULL OR completed_at <= $4)
		ORDER BY completed_at DESC;`,
		params.UserID, params.Type, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}
	return workouts, nil
}

// List is like ListAll, but returns the requested page only.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.Count(ctx, params.WorkoutParams)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, duration_minutes, calories_burned, notes, completed_at
		FROM workout
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR completed_at >= $3)
			AND ($4::timestamptz IS NULL OR completed_at <= $4)
		ORDER BY completed_at DESC
		LIMIT $5
		OFFSET $6;`,
		params.UserID, params.Type, params.From, params.To,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, -1, err
	}
	return workouts, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params WorkoutParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM workout
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR completed_at >= $3)
			AND ($4::timestamptz IS NULL OR completed_at <= $4);`,
		params.UserID, params.Type, params.From, params.To,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get workouts count")
}

func (r *Repo) Update(ctx context.Context, workout *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", workout.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE workout
		SET type = $1, duration_minutes = $2, calories_burned = $3, notes = $4
		WHERE id = $5 AND user_id = $6;`,
		workout.Type, workout.DurationMinutes, workout.CaloriesBurned, workout.Notes,
		workout.ID, workout.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `
		DELETE FROM workout WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		var w Workout
		var notes *string
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Type, &w.DurationMinutes,
			&w.CaloriesBurned, &notes, &w.CompletedAt,
		); err != nil {
			return nil, err
		}
		if notes != nil {
			w.Notes = *notes
		}
		workouts = append(workouts, w)
	}

	if workouts == nil {
		workouts = make([]Workout, 0)
	}

	return workouts, nil
}

// insertWorkoutTx and latestWorkoutBeforeTx run inside the streak
// transaction owned by the Service.
func insertWorkoutTx(ctx context.Context, tx pgx.Tx, workout Workout) (int, error) {
	var id int
	err := tx.QueryRow(ctx, `
		INSERT INTO workout (user_id, type, duration_minutes, calories_burned, notes, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		workout.UserID, workout.Type, workout.DurationMinutes,
		workout.CaloriesBurned, workout.Notes, workout.CompletedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert workout: %w", err)
	}
	return id, nil
}

func latestWorkoutBeforeTx(ctx context.Context, tx pgx.Tx, userID int, before time.Time) (*time.Time, error) {
	var completedAt time.Time
	err := tx.QueryRow(ctx, `
		SELECT completed_at FROM workout
		WHERE user_id = $1 AND completed_at < $2
		ORDER BY completed_at DESC
		LIMIT 1;`,
		userID, before,
	).Scan(&completedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest workout before: %w", err)
	}
	return &completedAt, nil
}
