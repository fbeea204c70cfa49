package meals

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

var ErrMealNotFound = errors.New("meal not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, meal Meal) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO meal
			(user_id, name, meal_type, calories, protein_grams, carbs_grams, fat_grams, notes, eaten_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;`,
		meal.UserID, meal.Name, meal.MealType, meal.Calories,
		meal.ProteinGrams, meal.CarbsGrams, meal.FatGrams, meal.Notes, meal.EatenAt,
	).Scan(&meal.ID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("meal.id", meal.ID))
	return &meal, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, meal_type, calories, protein_grams, carbs_grams, fat_grams, notes, eaten_at
		FROM meal
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

	meals, err := rows2meals(rows)
	if err != nil {
		return nil, err
	}

	if len(meals) != 1 {
		return nil, ErrMealNotFound
	}

	return &meals[0], nil
}

func (r *Repo) ListAll(ctx context.Context, params MealParams) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, meal_type, calories, protein_grams, carbs_grams, fat_grams, notes, eaten_at
		FROM meal
			WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR eaten_at >= $2)
			AND ($3::timestamptz IS NULL OR eaten_at <= $3)
			AND ($4::text[] IS NULL OR meal_type = ANY($4))
		ORDER BY eaten_at DESC;`,
		params.UserID, params.From, params.To, typesOrNil(params.Types),
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	meals, err := rows2meals(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2meals: %w", err)
	}
	return meals, nil
}

// TotalCalories sums the calories of all meals matching the params.
func (r *Repo) TotalCalories(ctx context.Context, params MealParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.totalCalories")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	var total int
	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(calories), 0) FROM meal
			WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR eaten_at >= $2)
			AND ($3::timestamptz IS NULL OR eaten_at <= $3)
			AND ($4::text[] IS NULL OR meal_type = ANY($4));`,
		params.UserID, params.From, params.To, typesOrNil(params.Types),
	).Scan(&total)
	if err != nil {
		return -1, err
	}

	return total, nil
}

func (r *Repo) Update(ctx context.Context, meal *Meal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", meal.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE meal
		SET name = $1, meal_type = $2, calories = $3, protein_grams = $4,
			carbs_grams = $5, fat_grams = $6, notes = $7, eaten_at = $8
		WHERE id = $9 AND user_id = $10;`,
		meal.Name, meal.MealType, meal.Calories, meal.ProteinGrams,
		meal.CarbsGrams, meal.FatGrams, meal.Notes, meal.EatenAt,
		meal.ID, meal.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `
		DELETE FROM meal WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}
	return nil
}

// typesOrNil maps an empty type filter to NULL, so the SQL filter is skipped.
func typesOrNil(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	return types
}

func rows2meals(rows pgx.Rows) ([]Meal, error) {
	var meals []Meal
	for rows.Next() {
		var m Meal
		var notes *string
		var eatenAt time.Time
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Name, &m.MealType, &m.Calories,
			&m.ProteinGrams, &m.CarbsGrams, &m.FatGrams, &notes, &eatenAt,
		); err != nil {
			return nil, err
		}
		if notes != nil {
			m.Notes = *notes
		}
		m.EatenAt = eatenAt
		meals = append(meals, m)
	}

	if meals == nil {
		meals = make([]Meal, 0)
	}

	return meals, nil
}
