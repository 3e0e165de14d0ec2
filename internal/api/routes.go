// Route registration and go-chi router setup.
package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matiasleandrokruk/trendwords/internal/api/handlers"
	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
	"github.com/matiasleandrokruk/trendwords/internal/infra/sqlite"
)

// NewRouter creates and configures the chi router: the live websocket
// endpoint plus the report-history REST API.
func NewRouter(db *sql.DB, source trend.ContentSource, cfg trend.PipelineConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check — used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	// Live feed — websocket upgrade, seeded by repeated ?subreddit= params
	liveHandler := handlers.NewLiveHandler(trend.NewLiveFeed(source, cfg))
	r.Get("/live", liveHandler.Upgrade)

	// Report history REST API
	store := sqlite.NewReportStore(db)
	reportHandler := handlers.NewReportHandler(store, trend.NewBatchRunner(source, cfg))
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Post("/", reportHandler.CreateReport) // POST /api/v1/reports
			r.Get("/", reportHandler.ListReports)   // GET /api/v1/reports
			r.Get("/{id}", reportHandler.GetReport) // GET /api/v1/reports/{id}
		})
	})

	return r
}
