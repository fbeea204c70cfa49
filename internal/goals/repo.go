package goals

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

var ErrGoalNotFound = errors.New("goal not found")

type GoalParams struct {
	UserID int
	Type   string
	// ActiveAt filters to goals whose date window contains the given
	// moment and which are not completed yet.
	ActiveAt *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO goal (user_id, type, target, current, start_date, end_date, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;`,
		goal.UserID, goal.Type, goal.Target, goal.Current,
		goal.StartDate, goal.EndDate, goal.Completed, goal.CreatedAt,
	).Scan(&goal.ID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("goal.id", goal.ID))
	return &goal, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, target, current, start_date, end_date, completed, created_at
		FROM goal
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

	goals, err := rows2goals(rows)
	if err != nil {
		return nil, err
	}

	if len(goals) != 1 {
		return nil, ErrGoalNotFound
	}

	return &goals[0], nil
}

func (r *Repo) ListByUser(ctx context.Context, params GoalParams) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.listByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))
	span.SetAttributes(attribute.String("type", params.Type))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, target, current, start_date, end_date, completed, created_at
		FROM goal
			WHERE user_id = $1
			AND ($2::text = '' OR type = $2)
			AND ($3::timestamptz IS NULL OR (start_date <= $3 AND end_date >= $3 AND completed IS FALSE))
		ORDER BY end_date ASC;`,
		params.UserID, params.Type, params.ActiveAt,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	goals, err := rows2goals(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2goals: %w", err)
	}
	return goals, nil
}

func (r *Repo) Update(ctx context.Context, goal *Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", goal.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE goal
		SET type = $1, target = $2, current = $3, start_date = $4, end_date = $5
		WHERE id = $6 AND user_id = $7;`,
		goal.Type, goal.Target, goal.Current, goal.StartDate, goal.EndDate,
		goal.ID, goal.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// IncrementProgress adds delta to the goal's current progress and returns the
// updated goal. The increment happens in the database, so concurrent
// increments never lose updates.
func (r *Repo) IncrementProgress(ctx context.Context, userID, id int, delta float64) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.incrementProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))
	span.SetAttributes(attribute.Float64("delta", delta))

	var goal Goal
	err = r.db.QueryRow(ctx, `
		UPDATE goal
		SET current = GREATEST(current + $1, 0)
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, type, target, current, start_date, end_date, completed, created_at;`,
		delta, id, userID,
	).Scan(
		&goal.ID, &goal.UserID, &goal.Type, &goal.Target, &goal.Current,
		&goal.StartDate, &goal.EndDate, &goal.Completed, &goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}

	return &goal, nil
}

func (r *Repo) Complete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `
		UPDATE goal SET completed = TRUE WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `
		DELETE FROM goal WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func rows2goals(rows pgx.Rows) ([]Goal, error) {
	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Type, &g.Target, &g.Current,
			&g.StartDate, &g.EndDate, &g.Completed, &g.CreatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	if goals == nil {
		goals = make([]Goal, 0)
	}

	return goals, nil
}
