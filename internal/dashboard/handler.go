package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vigortrack/vigortrack/internal/auth"
	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"
	"github.com/vigortrack/vigortrack/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	summary, err := handler.service.Summary(ctx, userID, time.Now())
	if err != nil {
		log.Errorf("failed to get dashboard summary for user %d: %s", userID, err)
		http.Error(w, "failed to get dashboard summary", http.StatusInternalServerError)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal dashboard summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, summaryJson, http.StatusOK)
}

// InvalidateOnWrite drops the user's cached dashboard after any state
// changing request has been served, so the next summary is fresh.
func (handler *Handler) InvalidateOnWrite() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				if userID, ok := auth.UserIDFromContext(r.Context()); ok {
					handler.service.Invalidate(r.Context(), userID)
				}
			}
		})
	}
}
