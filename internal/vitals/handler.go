package vitals

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

//go:generate mockgen -source=$GOFILE -destination=vitals_mocks_test.go -package=vitals_test

type vitalsRepo interface {
	Add(ctx context.Context, vital Vital) (*Vital, error)
	Get(ctx context.Context, userID, id int) (*Vital, error)
	ListAll(ctx context.Context, params VitalParams) ([]Vital, error)
	LatestPerType(ctx context.Context, userID int) ([]Vital, error)
	Update(ctx context.Context, vital *Vital) error
	Delete(ctx context.Context, userID, id int) error
}

type ListResponse struct {
	Vitals []Vital `json:"vitals"`
	Total  int     `json:"total"`
}

type DeleteVitalResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateVitalResponse struct {
	UpdatedID int `json:"updatedId"`
}

type Handler struct {
	repo    vitalsRepo
	metrics *metrics.Manager
}

func NewHandler(repo vitalsRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.vitals.new")
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

	var vital Vital
	if err := json.NewDecoder(r.Body).Decode(&vital); err != nil {
		log.Tracef("new vital, unmarshal json params: %s", err)
		http.Error(w, "add vital failed", http.StatusBadRequest)
		return
	}

	if !IsValidVitalType(vital.Type) {
		http.Error(w, "error, invalid vital type", http.StatusBadRequest)
		return
	}
	if vital.Unit == "" {
		http.Error(w, "error, unit empty", http.StatusBadRequest)
		return
	}
	if vital.MeasuredAt.IsZero() {
		vital.MeasuredAt = time.Now()
	}
	vital.UserID = userID

	addedVital, err := handler.repo.Add(ctx, vital)
	if err != nil {
		log.Errorf("failed to add new vital [%s] for user %d: %s", vital.Type, userID, err)
		http.Error(w, "error, failed to add new vital", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterVitalsLogged.Inc()

	addedVitalJson, err := json.Marshal(addedVital)
	if err != nil {
		log.Errorf("failed to marshal new vital: %s", err)
		http.Error(w, "error, failed to add new vital", http.StatusInternalServerError)
		return
	}

	log.Debugf("new vital added: %s", addedVitalJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedVitalJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.vitals.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := vitalID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vital, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrVitalNotFound) {
			http.Error(w, "vital not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get vital %d: %s", id, err)
		http.Error(w, "failed to get vital", http.StatusInternalServerError)
		return
	}

	vitalJson, err := json.Marshal(vital)
	if err != nil {
		log.Errorf("failed to marshal vital: %s", err)
		http.Error(w, "failed to marshal vital", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, vitalJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.vitals.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params, err := vitalParamsFromQuery(userID, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vitals, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list vitals error: %s", err)
		http.Error(w, "failed to get vitals", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Vitals: vitals,
		Total:  len(vitals),
	})
	if err != nil {
		log.Errorf("marshal vitals error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.vitals.latest")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vitals, err := handler.repo.LatestPerType(ctx, userID)
	if err != nil {
		log.Errorf("failed to get latest vitals for user %d: %s", userID, err)
		http.Error(w, "failed to get latest vitals", http.StatusInternalServerError)
		return
	}

	vitalsJson, err := json.Marshal(vitals)
	if err != nil {
		log.Errorf("failed to marshal latest vitals: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, vitalsJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.vitals.update")
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

	var vital Vital
	if err := json.NewDecoder(r.Body).Decode(&vital); err != nil {
		log.Errorf("update vital, unmarshal json params: %s", err)
		http.Error(w, "update vital failed", http.StatusBadRequest)
		return
	}

	if !IsValidVitalType(vital.Type) {
		http.Error(w, "error, invalid vital type", http.StatusBadRequest)
		return
	}
	vital.UserID = userID

	if err := handler.repo.Update(ctx, &vital); err != nil {
		if errors.Is(err, ErrVitalNotFound) {
			http.Error(w, "vital not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update vital [%d]: %s", vital.ID, err)
		http.Error(w, "error, failed to update vital", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateVitalResponse{
		UpdatedID: vital.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.vitals.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := vitalID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrVitalNotFound) {
			http.Error(w, "vital not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete vital %d: %s", id, err)
		http.Error(w, "vital not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteVitalResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func vitalID(r *http.Request) (int, error) {
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

func vitalParamsFromQuery(userID int, r *http.Request) (VitalParams, error) {
	params := VitalParams{
		UserID: userID,
	}

	if typesStr := r.URL.Query().Get("types"); typesStr != "" {
		for _, vitalType := range strings.Split(typesStr, ",") {
			vitalType = strings.TrimSpace(vitalType)
			if !IsValidVitalType(vitalType) {
				return VitalParams{}, errors.New("error, invalid vital type in types param")
			}
			params.Types = append(params.Types, vitalType)
		}
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return VitalParams{}, errors.New("failed to parse from param")
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return VitalParams{}, errors.New("failed to parse to param")
		}
		params.To = &to
	}

	return params, nil
}
