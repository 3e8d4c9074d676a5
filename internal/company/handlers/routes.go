package handlers

import (
	"net/http"
	"time"

	"github.com/gartstein/crm/internal/company/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouterConfig tunes the middleware in front of the mutating routes.
type RouterConfig struct {
	// JWTSecret enables bearer auth on POST, PUT and DELETE when set.
	JWTSecret string
	// RateLimit is the number of mutating requests one IP may make per
	// RateWindow. Zero disables limiting.
	RateLimit    int
	RateWindow   time.Duration
	MaxBodyBytes int64
}

// NewRouter wires the company endpoints:
//
//	GET    /_healthz
//	GET    /routes/companies
//	POST   /routes/companies
//	GET    /routes/companies/{company_id}
//	PUT    /routes/companies/{company_id}
//	DELETE /routes/companies/{company_id}
func NewRouter(h *CompanyHandler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	logger = logger.Named("http")
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}

	r := chi.NewRouter()
	r.Use(recoverer(logger))
	r.Use(requestLogger(logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/_healthz", h.Health)

	r.Route("/routes/companies", func(r chi.Router) {
		r.Get("/", h.ListCompanies)
		r.Get("/{company_id}", h.GetCompany)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.JWTSecret, logger))
			r.Use(rateLimit(cfg.RateLimit, cfg.RateWindow, logger))
			r.Use(requestSizeLimit(cfg.MaxBodyBytes))

			r.Post("/", h.CreateCompany)
			r.Put("/{company_id}", h.UpdateCompany)
			r.Delete("/{company_id}", h.DeleteCompany)
		})
	})

	return r
}
