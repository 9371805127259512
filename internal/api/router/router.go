package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/caretaker-ai/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/caretaker-ai/internal/http/middleware"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// Config holds router configuration. Nil handlers leave their routes
// unmounted.
type Config struct {
	Logger             *logging.Logger
	Health             *handlers.HealthHandler
	Chat               *handlers.ChatHandler
	Content            *handlers.ContentHandler
	Bills              *handlers.BillsHandler
	AI                 *handlers.AIHandler
	Audit              *handlers.AuditHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	health := cfg.Health
	if health == nil {
		health = handlers.NewHealthHandler(nil)
	}
	r.Get("/health", health.Live)
	r.Get("/ready", health.Ready)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		if cfg.AI != nil {
			api.Get("/ai/ping", cfg.AI.Ping)
		}
		if cfg.Chat != nil {
			api.Post("/chat", cfg.Chat.Chat)
		}
		if cfg.Content != nil {
			api.Route("/content", func(c chi.Router) {
				c.Post("/detect", cfg.Content.Detect)
				c.Post("/upload", cfg.Content.Upload)
				c.Post("/appointments", cfg.Content.Appointments)
			})
		}
		if cfg.Bills != nil {
			api.Post("/analyze-bill", cfg.Bills.AnalyzeBill)
			api.Post("/contact-script", cfg.Bills.ContactScript)
			api.Post("/doctor-questions", cfg.Bills.DoctorQuestions)
			api.Post("/scam-check", cfg.Bills.ScamCheck)
			api.Route("/bills", func(b chi.Router) {
				b.Get("/", cfg.Bills.ListBills)
				b.Post("/", cfg.Bills.SaveBill)
				b.Get("/{billID}", cfg.Bills.GetBill)
				b.Patch("/{billID}", cfg.Bills.UpdateBillStatus)
				b.Delete("/{billID}", cfg.Bills.DeleteBill)
			})
		}
	})

	if cfg.Audit != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/audit", cfg.Audit.List)
			admin.Get("/audit/stats", cfg.Audit.Stats)
			admin.Delete("/audit", cfg.Audit.Clear)
		})
	}

	return r
}
