package workouts

import (
	"context"
	"sort"
	"time"

	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type analyzerRepo interface {
	ListAll(ctx context.Context, params WorkoutParams) ([]Workout, error)
}

type Analyzer struct {
	repo analyzerRepo
}

func NewAnalyzer(repo analyzerRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// WeekStats aggregates one ISO week of workouts, keyed by the Monday midnight
// of that week.
type WeekStats struct {
	WeekStart     time.Time `json:"weekStart"`
	Workouts      int       `json:"workouts"`
	TotalMinutes  int       `json:"totalMinutes"`
	TotalCalories int       `json:"totalCalories"`
}

// WeeklyStats returns per-week workout totals for the given params,
// most recent week first.
func (a *Analyzer) WeeklyStats(
	ctx context.Context,
	params WorkoutParams,
) (_ []WeekStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.weeklyStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	workouts, err := a.repo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	week2stats := make(map[time.Time]WeekStats)
	for _, w := range workouts {
		week := weekStartOf(w.CompletedAt)
		stats := week2stats[week]
		stats.WeekStart = week
		stats.Workouts++
		stats.TotalMinutes += w.DurationMinutes
		stats.TotalCalories += w.CaloriesBurned
		week2stats[week] = stats
	}

	weekStats := make([]WeekStats, 0, len(week2stats))
	for _, stats := range week2stats {
		weekStats = append(weekStats, stats)
	}
	// map iteration order is random
	sort.Slice(weekStats, func(i, j int) bool {
		return weekStats[i].WeekStart.After(weekStats[j].WeekStart)
	})

	return weekStats, nil
}

// TypePercentages returns the share of each workout type, in percents with
// two decimals, for the given params.
func (a *Analyzer) TypePercentages(
	ctx context.Context,
	params WorkoutParams,
) (_ map[string]float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.typePercentages")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	workouts, err := a.repo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	type2count := make(map[string]int)
	for _, w := range workouts {
		type2count[w.Type]++
	}

	type2percentage := make(map[string]float64)
	for workoutType, count := range type2count {
		p := float64(count) / float64(len(workouts)) * 100
		// leave only 2 decimals
		p = float64(int(p*100)) / 100
		type2percentage[workoutType] = p
	}

	return type2percentage, nil
}

// weekStartOf returns the Monday midnight of the week of t,
// in the timezone t carries.
func weekStartOf(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
