package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vigortrack/vigortrack/internal/goals"
	"github.com/vigortrack/vigortrack/internal/meals"
	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"
	"github.com/vigortrack/vigortrack/internal/users"
	"github.com/vigortrack/vigortrack/internal/vitals"
	"github.com/vigortrack/vigortrack/internal/workouts"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=dashboard_mocks_test.go -package=dashboard_test

const cacheKeyPrefix = "vigortrack-dashboard||"

type profileGetter interface {
	GetProfile(ctx context.Context, userID int) (*users.Profile, error)
}

type workoutsLister interface {
	ListAll(ctx context.Context, params workouts.WorkoutParams) ([]workouts.Workout, error)
}

type caloriesSummer interface {
	TotalCalories(ctx context.Context, params meals.MealParams) (int, error)
}

type vitalsLatestGetter interface {
	LatestPerType(ctx context.Context, userID int) ([]vitals.Vital, error)
}

type goalsLister interface {
	ListByUser(ctx context.Context, params goals.GoalParams) ([]goals.Goal, error)
}

type WeekSummary struct {
	Workouts      int `json:"workouts"`
	TotalMinutes  int `json:"totalMinutes"`
	TotalCalories int `json:"totalCalories"`
}

// Summary is the aggregated dashboard view for one user at one moment.
type Summary struct {
	UserID           int                        `json:"userId"`
	AsOf             time.Time                  `json:"asOf"`
	StreakDays       int                        `json:"streakDays"`
	LastWorkoutAt    *time.Time                 `json:"lastWorkoutAt,omitempty"`
	ThisWeek         WeekSummary                `json:"thisWeek"`
	TodayCaloriesIn  int                        `json:"todayCaloriesIn"`
	TodayCaloriesOut int                        `json:"todayCaloriesOut"`
	LatestVitals     []vitals.Vital             `json:"latestVitals"`
	ActiveGoals      []goals.GoalWithEvaluation `json:"activeGoals"`
}

// Service assembles the dashboard summary from the other modules, with a
// short lived read-through redis cache in front.
type Service struct {
	profiles     profileGetter
	workoutsRepo workoutsLister
	mealsRepo    caloriesSummer
	vitalsRepo   vitalsLatestGetter
	goalsRepo    goalsLister
	redisClient  *redis.Client
	cacheTTL     time.Duration
}

func NewService(
	profiles profileGetter,
	workoutsRepo workoutsLister,
	mealsRepo caloriesSummer,
	vitalsRepo vitalsLatestGetter,
	goalsRepo goalsLister,
	redisClient *redis.Client,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		profiles:     profiles,
		workoutsRepo: workoutsRepo,
		mealsRepo:    mealsRepo,
		vitalsRepo:   vitalsRepo,
		goalsRepo:    goalsRepo,
		redisClient:  redisClient,
		cacheTTL:     cacheTTL,
	}
}

// Summary returns the cached summary when fresh, otherwise assembles it and
// caches the result. Cache failures only cost us the caching, never the
// response.
func (s *Service) Summary(ctx context.Context, userID int, asOf time.Time) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	cacheKey := fmt.Sprintf("%s%d", cacheKeyPrefix, userID)
	cached, err := s.redisClient.Get(ctx, cacheKey).Result()
	if err == nil {
		var summary Summary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &summary, nil
		}
		log.Warnf("dashboard cache for user %d holds garbage, recomputing", userID)
	} else if !errors.Is(err, redis.Nil) {
		log.Warnf("dashboard cache get for user %d: %s", userID, err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	summary, err := s.assemble(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	if err := s.redisClient.Set(ctx, cacheKey, summaryJson, s.cacheTTL).Err(); err != nil {
		log.Warnf("dashboard cache set for user %d: %s", userID, err)
	}

	return summary, nil
}

// Invalidate drops the cached summary, called after every write that can
// change the dashboard.
func (s *Service) Invalidate(ctx context.Context, userID int) {
	cacheKey := fmt.Sprintf("%s%d", cacheKeyPrefix, userID)
	if err := s.redisClient.Del(ctx, cacheKey).Err(); err != nil {
		log.Warnf("dashboard cache invalidate for user %d: %s", userID, err)
	}
}

func (s *Service) assemble(ctx context.Context, userID int, asOf time.Time) (*Summary, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	weekStart := weekStartOf(asOf)
	weekWorkouts, err := s.workoutsRepo.ListAll(ctx, workouts.WorkoutParams{
		UserID: userID,
		From:   &weekStart,
		To:     &asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("list week workouts: %w", err)
	}

	var week WeekSummary
	todayMidnight := midnightOf(asOf)
	todayCaloriesOut := 0
	for _, w := range weekWorkouts {
		week.Workouts++
		week.TotalMinutes += w.DurationMinutes
		week.TotalCalories += w.CaloriesBurned
		if !w.CompletedAt.Before(todayMidnight) {
			todayCaloriesOut += w.CaloriesBurned
		}
	}

	todayCaloriesIn, err := s.mealsRepo.TotalCalories(ctx, meals.MealParams{
		UserID: userID,
		From:   &todayMidnight,
		To:     &asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("today calories: %w", err)
	}

	latestVitals, err := s.vitalsRepo.LatestPerType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest vitals: %w", err)
	}

	activeGoals, err := s.goalsRepo.ListByUser(ctx, goals.GoalParams{
		UserID:   userID,
		ActiveAt: &asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("active goals: %w", err)
	}

	goalsWithEval := make([]goals.GoalWithEvaluation, 0, len(activeGoals))
	for _, goal := range activeGoals {
		goalsWithEval = append(goalsWithEval, goals.GoalWithEvaluation{
			Goal:       goal,
			Evaluation: goals.Evaluate(goal, asOf),
		})
	}

	return &Summary{
		UserID:           userID,
		AsOf:             asOf,
		StreakDays:       profile.StreakDays,
		LastWorkoutAt:    profile.LastWorkoutAt,
		ThisWeek:         week,
		TodayCaloriesIn:  todayCaloriesIn,
		TodayCaloriesOut: todayCaloriesOut,
		LatestVitals:     latestVitals,
		ActiveGoals:      goalsWithEval,
	}, nil
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func weekStartOf(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
