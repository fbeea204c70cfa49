package vitals

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

var ErrVitalNotFound = errors.New("vital not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, vital Vital) (_ *Vital, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.vitals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO vital (user_id, type, value, secondary_value, unit, notes, measured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`,
		vital.UserID, vital.Type, vital.Value, vital.SecondaryValue,
		vital.Unit, vital.Notes, vital.MeasuredAt,
	).Scan(&vital.ID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("vital.id", vital.ID))
	return &vital, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Vital, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.vitals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, value, secondary_value, unit, notes, measured_at
		FROM vital
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

	vitals, err := rows2vitals(rows)
	if err != nil {
		return nil, err
	}

	if len(vitals) != 1 {
		return nil, ErrVitalNotFound
	}

	return &vitals[0], nil
}

func (r *Repo) ListAll(ctx context.Context, params VitalParams) (_ []Vital, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.vitals.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, value, secondary_value, unit, notes, measured_at
		FROM vital
			WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR measured_at >= $2)
			AND ($3::timestamptz IS NULL OR measured_at <= $3)
			AND ($4::text[] IS NULL OR type = ANY($4))
		ORDER BY measured_at DESC;`,
		params.UserID, params.From, params.To, typesOrNil(params.Types),
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	vitals, err := rows2vitals(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2vitals: %w", err)
	}
	return vitals, nil
}

// LatestPerType returns the most recent measurement of each vital type the
// user has ever logged.
func (r *Repo) LatestPerType(ctx context.Context, userID int) (_ []Vital, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.vitals.latestPerType")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (type)
			id, user_id, type, value, secondary_value, unit, notes, measured_at
		FROM vital
		WHERE user_id = $1
		ORDER BY type, measured_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	vitals, err := rows2vitals(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2vitals: %w", err)
	}
	return vitals, nil
}

func (r *Repo) Update(ctx context.Context, vital *Vital) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.vitals.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", vital.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE vital
		SET type = $1, value = $2, secondary_value = $3, unit = $4, notes = $5, measured_at = $6
		WHERE id = $7 AND user_id = $8;`,
		vital.Type, vital.Value, vital.SecondaryValue, vital.Unit,
		vital.Notes, vital.MeasuredAt, vital.ID, vital.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVitalNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.vitals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `
		DELETE FROM vital WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVitalNotFound
	}
	return nil
}

func typesOrNil(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	return types
}

func rows2vitals(rows pgx.Rows) ([]Vital, error) {
	var vitals []Vital
	for rows.Next() {
		var v Vital
		var notes *string
		var measuredAt time.Time
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.Type, &v.Value, &v.SecondaryValue,
			&v.Unit, &notes, &measuredAt,
		); err != nil {
			return nil, err
		}
		if notes != nil {
			v.Notes = *notes
		}
		v.MeasuredAt = measuredAt
		vitals = append(vitals, v)
	}

	if vitals == nil {
		vitals = make([]Vital, 0)
	}

	return vitals, nil
}
