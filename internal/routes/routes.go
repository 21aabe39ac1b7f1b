package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"patient-intake/internal/handlers"
	"patient-intake/internal/middleware"
	"patient-intake/pkg/utils"
)

// Store is what the routes need from the record store.
type Store interface {
	handlers.PatientInserter
	Ping(ctx context.Context) error
}

type Options struct {
	CORSOrigins []string
	// RateLimiter is optional; nil disables per-IP limiting.
	RateLimiter *middleware.IPRateLimiter
}

// NewRouter builds the engine with the global middleware chain and all routes.
// Metrics wraps Recovery so that panicking requests are counted as 500s.
func NewRouter(logger zerolog.Logger, store Store, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.Recovery(logger),
	)
	SetupRoutes(r, store, opts)
	return r
}

func SetupRoutes(r *gin.Engine, store Store, opts Options) {
	utils.UseJSONFieldNames()

	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
	}

	patients := handlers.NewPatientHandler(store)
	health := handlers.NewHealthHandler(store)

	r.GET("/", handlers.Root)
	r.GET("/healthz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/patients", patients.AddPatient)
}
