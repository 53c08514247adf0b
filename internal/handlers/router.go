package handlers

import (
	"net/http"
	"time"

	"taskManager/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RateLimitRPM   int
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func NewRouter(h *ToolHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.RequestIdHeader},
			ExposedHeaders: []string{middleware.RequestIdHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/health", h.HealthCheck)

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", h.ListTools)        // GET /tools
		r.Post("/{name}", h.CallTool) // POST /tools/{name}
	})

	r.Route("/resources", func(r chi.Router) {
		r.Get("/", h.ListResources)     // GET /resources
		r.Get("/read", h.ReadResource) // GET /resources/read?uri=tasks://summary
	})

	return otelhttp.NewHandler(r, "task-tools")
}
