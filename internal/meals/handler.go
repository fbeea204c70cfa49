package meals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vigortrack/vigortrack/internal/auth"
	"github.com/vigortrack/vigortrack/internal/telemetry/metrics"
	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"
	"github.com/vigortrack/vigortrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=meals_mocks_test.go -package=meals_test

type mealsRepo interface {
	Add(ctx context.Context, meal Meal) (*Meal, error)
	Get(ctx context.Context, userID, id int) (*Meal, error)
	ListAll(ctx context.Context, params MealParams) ([]Meal, error)
	TotalCalories(ctx context.Context, params MealParams) (int, error)
	Update(ctx context.Context, meal *Meal) error
	Delete(ctx context.Context, userID, id int) error
}

type ListResponse struct {
	Meals []Meal `json:"meals"`
	Total int    `json:"total"`
}

type TotalCaloriesResponse struct {
	TotalCalories int `json:"totalCalories"`
}

type DeleteMealResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateMealResponse struct {
	UpdatedID int `json:"updatedId"`
}

type Handler struct {
	repo    mealsRepo
	metrics *metrics.Manager
}

func NewHandler(repo mealsRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.new")
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

	var meal Meal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		log.Tracef("new meal, unmarshal json params: %s", err)
		http.Error(w, "add meal failed", http.StatusBadRequest)
		return
	}

	if meal.Name == "" {
		http.Error(w, "error, meal name empty", http.StatusBadRequest)
		return
	}
	if !IsValidMealType(meal.MealType) {
		http.Error(w, "error, invalid meal type", http.StatusBadRequest)
		return
	}
	if meal.Calories < 0 || meal.ProteinGrams < 0 || meal.CarbsGrams < 0 || meal.FatGrams < 0 {
		http.Error(w, "error, negative nutrition values", http.StatusBadRequest)
		return
	}
	if meal.EatenAt.IsZero() {
		meal.EatenAt = time.Now()
	}
	meal.UserID = userID

	addedMeal, err := handler.repo.Add(ctx, meal)
	if err != nil {
		log.Errorf("failed to add new meal [%s] for user %d: %s", meal.Name, userID, err)
		http.Error(w, "error, failed to add new meal", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMealsLogged.Inc()

	addedMealJson, err := json.Marshal(addedMeal)
	if err != nil {
		log.Errorf("failed to marshal new meal: %s", err)
		http.Error(w, "error, failed to add new meal", http.StatusInternalServerError)
		return
	}

	log.Debugf("new meal added: %s", addedMealJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedMealJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := mealID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	meal, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrMealNotFound) {
			http.Error(w, "meal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get meal %d: %s", id, err)
		http.Error(w, "failed to get meal", http.StatusInternalServerError)
		return
	}

	mealJson, err := json.Marshal(meal)
	if err != nil {
		log.Errorf("failed to marshal meal: %s", err)
		http.Error(w, "failed to marshal meal", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, mealJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := mealParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	meals, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list meals error: %s", err)
		http.Error(w, "failed to get meals", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Meals: meals,
		Total: len(meals),
	})
	if err != nil {
		log.Errorf("marshal meals error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleTotalCalories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.totalCalories")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := mealParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	totalCalories, err := handler.repo.TotalCalories(ctx, params)
	if err != nil {
		log.Errorf("failed to get total calories for user %d: %s", userID, err)
		http.Error(w, "failed to get total calories", http.StatusInternalServerError)
		return
	}

	totalRespJson, err := json.Marshal(TotalCaloriesResponse{
		TotalCalories: totalCalories,
	})
	if err != nil {
		log.Errorf("failed to marshal total calories response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, totalRespJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.update")
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

	var meal Meal
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		log.Errorf("update meal, unmarshal json params: %s", err)
		http.Error(w, "update meal failed", http.StatusBadRequest)
		return
	}

	if meal.Name == "" {
		http.Error(w, "error, meal name empty", http.StatusBadRequest)
		return
	}
	if !IsValidMealType(meal.MealType) {
		http.Error(w, "error, invalid meal type", http.StatusBadRequest)
		return
	}
	meal.UserID = userID

	if err := handler.repo.Update(ctx, &meal); err != nil {
		if errors.Is(err, ErrMealNotFound) {
			http.Error(w, "meal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update meal [%d]: %s", meal.ID, err)
		http.Error(w, "error, failed to update meal", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateMealResponse{
		UpdatedID: meal.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.meals.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := mealID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrMealNotFound) {
			http.Error(w, "meal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete meal %d: %s", id, err)
		http.Error(w, "meal not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteMealResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func mealID(r *http.Request) (int, error) {
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

func mealParamsFromQuery(userID int, r *http.Request) (MealParams, error) {
	params := MealParams{
		UserID: userID,
	}

	if typesStr := r.URL.Query().Get("types"); typesStr != "" {
		for _, mealType := range strings.Split(typesStr, ",") {
			mealType = strings.TrimSpace(mealType)
			if !IsValidMealType(mealType) {
				return MealParams{}, errors.New("error, invalid meal type in types param")
			}
			params.Types = append(params.Types, mealType)
		}
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return MealParams{}, errors.New("failed to parse from param")
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return MealParams{}, errors.New("failed to parse to param")
		}
		params.To = &to
	}

	return params, nil
}
