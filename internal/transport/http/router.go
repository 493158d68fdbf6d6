package http

import (
	"net/http"
	"time"

	"landregistry/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Handlers bundles the services the HTTP layer exposes. Notifier and
// Blobs may be nil when the deployment runs without those backends.
type Handlers struct {
	Auth        service.AuthService
	Lands       service.LandService
	Tokens      service.TokenService
	Notifier    service.Notifier
	Blobs       service.BlobStore
	Environment string
}

// RouterConfig carries the transport-level knobs: CORS allowlist and
// the per-IP rate limit applied in front of every route.
type RouterConfig struct {
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
}

func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = 15 * time.Minute
		}
		r.Use(httprate.LimitByIP(cfg.RateLimit, window))
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.Post("/register_govt", h.registerGovernment)
		r.Get("/available", h.availableLands)
		r.Get("/{landId:[0-9]+}", h.landByID)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.Tokens))
			r.Get("/profile", h.profile)
			r.Put("/profile", h.updateProfile)
			r.Get("/users", h.listUsers)
			r.Post("/send_notification", h.sendNotification)

			r.Post("/register", h.registerLand)
			r.Post("/approve/{landId:[0-9]+}", h.approveLand)
			r.Post("/request/{landId:[0-9]+}", h.requestPurchase)
			r.Post("/process-request/{landId:[0-9]+}", h.processRequest)
			r.Put("/{landId:[0-9]+}", h.updateLand)
			r.Get("/user/{userId}", h.userLands)
			r.Get("/pending-approval", h.pendingApproval)
			r.Get("/stats/overview", h.stats)
			r.Get("/documents/{key}", h.downloadDocument)
		})
	})

	return r
}
