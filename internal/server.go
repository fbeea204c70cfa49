package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/vigortrack/vigortrack/internal/auth"
	"github.com/vigortrack/vigortrack/internal/config"
	"github.com/vigortrack/vigortrack/internal/dashboard"
	"github.com/vigortrack/vigortrack/internal/db"
	"github.com/vigortrack/vigortrack/internal/goals"
	"github.com/vigortrack/vigortrack/internal/meals"
	"github.com/vigortrack/vigortrack/internal/middleware"
	"github.com/vigortrack/vigortrack/internal/telemetry/metrics"
	"github.com/vigortrack/vigortrack/internal/telemetry/tracing"
	"github.com/vigortrack/vigortrack/internal/users"
	"github.com/vigortrack/vigortrack/internal/vitals"
	"github.com/vigortrack/vigortrack/internal/workouts"
	"github.com/vigortrack/vigortrack/pkg"
)

const defaultDashboardCacheTTL = 30 * time.Second

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "vigortrack_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("vigortrack", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "vigortrack-backend", rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET", "OPTIONS").Name("version")

	usersRepo := users.NewRepo(s.dbPool)
	usersHandler := users.NewHandler(usersRepo, s.authService, s.metricsManager)

	accountSubrouter := r.PathPrefix("/a").Subrouter()
	accountSubrouter.HandleFunc("/register", usersHandler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	accountSubrouter.HandleFunc("/login", usersHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	accountSubrouter.HandleFunc("/logout", usersHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")

	// rate limit the account endpoints to prevent abuse
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	accountSubrouter.Use(middleware.RateLimit(
		reqRateLimiter,
		"login",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	))
	accountSubrouter.Use(middleware.Cors())

	r.HandleFunc("/profile", usersHandler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", usersHandler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")

	workoutsRepo := workouts.NewRepo(s.dbPool)
	workoutsHandler := workouts.NewHandler(
		workoutsRepo,
		workouts.NewService(s.dbPool, s.metricsManager),
		s.metricsManager,
	)
	r.HandleFunc("/workouts", workoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts", workoutsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/list/page/{page}/size/{size}", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/stats/weekly", workoutsHandler.HandleWeeklyStats).Methods("GET", "OPTIONS").Name("weekly-stats")
	r.HandleFunc("/workouts/stats/percentages", workoutsHandler.HandleTypePercentages).Methods("GET", "OPTIONS").Name("type-percentages")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")

	goalsRepo := goals.NewRepo(s.dbPool)
	goalsHandler := goals.NewHandler(goalsRepo, s.metricsManager)
	r.HandleFunc("/goals", goalsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-goal")
	r.HandleFunc("/goals", goalsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-goals")
	r.HandleFunc("/goals", goalsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-goal")
	r.HandleFunc("/goals/{id}", goalsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-goal")
	r.HandleFunc("/goals/{id}", goalsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-goal")
	r.HandleFunc("/goals/{id}/progress", goalsHandler.HandleProgress).Methods("POST", "OPTIONS").Name("goal-progress")
	r.HandleFunc("/goals/{id}/complete", goalsHandler.HandleComplete).Methods("POST", "OPTIONS").Name("complete-goal")

	mealsRepo := meals.NewRepo(s.dbPool)
	mealsHandler := meals.NewHandler(mealsRepo, s.metricsManager)
	r.HandleFunc("/meals", mealsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-meal")
	r.HandleFunc("/meals", mealsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-meals")
	r.HandleFunc("/meals", mealsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-meal")
	r.HandleFunc("/meals/calories", mealsHandler.HandleTotalCalories).Methods("GET", "OPTIONS").Name("meals-calories")
	r.HandleFunc("/meals/{id}", mealsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-meal")
	r.HandleFunc("/meals/{id}", mealsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-meal")

	vitalsRepo := vitals.NewRepo(s.dbPool)
	vitalsHandler := vitals.NewHandler(vitalsRepo, s.metricsManager)
	r.HandleFunc("/vitals", vitalsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-vital")
	r.HandleFunc("/vitals", vitalsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-vitals")
	r.HandleFunc("/vitals", vitalsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-vital")
	r.HandleFunc("/vitals/latest", vitalsHandler.HandleLatest).Methods("GET", "OPTIONS").Name("latest-vitals")
	r.HandleFunc("/vitals/{id}", vitalsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-vital")
	r.HandleFunc("/vitals/{id}", vitalsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-vital")

	cacheTTL := defaultDashboardCacheTTL
	if s.config.DashboardCacheTTLSeconds > 0 {
		cacheTTL = time.Duration(s.config.DashboardCacheTTLSeconds) * time.Second
	}
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(
		usersRepo,
		workoutsRepo,
		mealsRepo,
		vitalsRepo,
		goalsRepo,
		s.redisClient,
		cacheTTL,
	))
	r.HandleFunc("/dashboard", dashboardHandler.HandleSummary).Methods("GET", "OPTIONS").Name("dashboard")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	// runs with the user already in the context, so writes can drop the cache
	r.Use(dashboardHandler.InvalidateOnWrite())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
