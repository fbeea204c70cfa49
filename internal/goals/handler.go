package goals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vigortrack/vigortrack/internal/auth"
	"github.com/vigortrack/vigortrack/internal/telemetry/metrics"
	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"
	"github.com/vigortrack/vigortrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=goals_mocks_test.go -package=goals_test

type goalsRepo interface {
	Add(ctx context.Context, goal Goal) (*Goal, error)
	Get(ctx context.Context, userID, id int) (*Goal, error)
	ListByUser(ctx context.Context, params GoalParams) ([]Goal, error)
	Update(ctx context.Context, goal *Goal) error
	IncrementProgress(ctx context.Context, userID, id int, delta float64) (*Goal, error)
	Complete(ctx context.Context, userID, id int) error
	Delete(ctx context.Context, userID, id int) error
}

// GoalWithEvaluation is what clients get: the stored goal plus the derived
// progress and status as of the time of the request.
type GoalWithEvaluation struct {
	Goal
	Evaluation Evaluation `json:"evaluation"`
}

type ListResponse struct {
	Goals []GoalWithEvaluation `json:"goals"`
	Total int                  `json:"total"`
}

type ProgressRequest struct {
	Delta float64 `json:"delta"`
}

type DeleteGoalResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateGoalResponse struct {
	UpdatedID int `json:"updatedId"`
}

type CompleteGoalResponse struct {
	CompletedID int `json:"completedId"`
}

type Handler struct {
	repo    goalsRepo
	metrics *metrics.Manager
}

func NewHandler(repo goalsRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.new")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Tracef("new goal, unmarshal json params: %s", err)
		http.Error(w, "add goal failed", http.StatusBadRequest)
		return
	}

	if goal.Type == "" {
		http.Error(w, "error, goal type empty", http.StatusBadRequest)
		return
	}
	if goal.Target < 0 || goal.Current < 0 {
		http.Error(w, "error, target or current negative", http.StatusBadRequest)
		return
	}
	if goal.StartDate.IsZero() || goal.EndDate.IsZero() {
		http.Error(w, "error, start or end date missing", http.StatusBadRequest)
		return
	}
	if goal.EndDate.Before(goal.StartDate) {
		http.Error(w, "error, end date before start date", http.StatusBadRequest)
		return
	}

	goal.UserID = userID
	goal.Completed = false
	goal.CreatedAt = time.Now()

	addedGoal, err := handler.repo.Add(ctx, goal)
	if err != nil {
		log.Errorf("failed to add new goal [%s] for user %d: %s", goal.Type, userID, err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	addedGoalJson, err := json.Marshal(GoalWithEvaluation{
		Goal:       *addedGoal,
		Evaluation: Evaluate(*addedGoal, time.Now()),
	})
	if err != nil {
		log.Errorf("failed to marshal new goal: %s", err)
		http.Error(w, "error, failed to add new goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("new goal added: %s", addedGoalJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedGoalJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := goalID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get goal %d: %s", id, err)
		http.Error(w, "failed to get goal", http.StatusInternalServerError)
		return
	}

	goalJson, err := json.Marshal(GoalWithEvaluation{
		Goal:       *goal,
		Evaluation: Evaluate(*goal, time.Now()),
	})
	if err != nil {
		log.Errorf("failed to marshal goal: %s", err)
		http.Error(w, "failed to marshal goal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params := GoalParams{
		UserID: userID,
		Type:   r.URL.Query().Get("type"),
	}
	if r.URL.Query().Get("active") == "true" {
		now := time.Now()
		params.ActiveAt = &now
	}

	goals, err := handler.repo.ListByUser(ctx, params)
	if err != nil {
		log.Errorf("list goals error: %s", err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	goalsWithEval := make([]GoalWithEvaluation, 0, len(goals))
	for _, goal := range goals {
		goalsWithEval = append(goalsWithEval, GoalWithEvaluation{
			Goal:       goal,
			Evaluation: Evaluate(goal, now),
		})
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Goals: goalsWithEval,
		Total: len(goalsWithEval),
	})
	if err != nil {
		log.Errorf("marshal goals error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Errorf("update goal, unmarshal json params: %s", err)
		http.Error(w, "update goal failed", http.StatusBadRequest)
		return
	}

	if goal.Type == "" {
		http.Error(w, "error, goal type empty", http.StatusBadRequest)
		return
	}
	if goal.Target < 0 || goal.Current < 0 {
		http.Error(w, "error, target or current negative", http.StatusBadRequest)
		return
	}
	goal.UserID = userID

	if err := handler.repo.Update(ctx, &goal); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update goal [%d]: %s", goal.ID, err)
		http.Error(w, "error, failed to update goal", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateGoalResponse{
		UpdatedID: goal.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.progress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := goalID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var progressReq ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&progressReq); err != nil {
		log.Tracef("goal progress, unmarshal json params: %s", err)
		http.Error(w, "goal progress failed", http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.IncrementProgress(ctx, userID, id, progressReq.Delta)
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to increment goal %d progress: %s", id, err)
		http.Error(w, "failed to increment goal progress", http.StatusInternalServerError)
		return
	}

	goalJson, err := json.Marshal(GoalWithEvaluation{
		Goal:       *goal,
		Evaluation: Evaluate(*goal, time.Now()),
	})
	if err != nil {
		log.Errorf("failed to marshal goal: %s", err)
		http.Error(w, "failed to marshal goal", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalJson, http.StatusOK)
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.complete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := goalID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Complete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to complete goal %d: %s", id, err)
		http.Error(w, "failed to complete goal", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGoalsCompleted.Inc()

	completeRespJson, err := json.Marshal(CompleteGoalResponse{
		CompletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal complete response: %s", err)
		http.Error(w, "failed to marshal complete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(completeRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goals.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := goalID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete goal %d: %s", id, err)
		http.Error(w, "goal not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteGoalResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func goalID(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}
