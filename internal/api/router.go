package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/api/handlers"
	"github.com/dvloznov/finance-assistant/internal/api/middleware"
	"github.com/dvloznov/finance-assistant/internal/metrics"
	"github.com/dvloznov/finance-assistant/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins       []string
	MaxUploadBytes    int64
	ChatRatePerMinute int
}

// NewRouter wires the upload, summary and chat endpoints over one store.
func NewRouter(st *store.Store, answerer handlers.Answerer, opts Options, log zerolog.Logger) http.Handler {
	engine := metrics.NewEngine(st)

	uploadHandler := handlers.NewUploadHandler(st, opts.MaxUploadBytes, log)
	summaryHandler := handlers.NewSummaryHandler(engine, log)
	chatHandler := handlers.NewChatHandler(answerer, log)
	healthHandler := handlers.NewHealthHandler(st)

	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)

	r.Post("/upload", uploadHandler.Upload)
	r.Post("/upload/", uploadHandler.Upload)

	r.Route("/summary", func(r chi.Router) {
		r.Get("/by-category", summaryHandler.ByCategory)
		r.Get("/top-merchants", summaryHandler.TopMerchants)
		r.Get("/monthly-totals", summaryHandler.MonthlyTotals)
		r.Get("/top-expenses-week", summaryHandler.TopExpensesWeek)
		r.Get("/daily-totals", summaryHandler.DailyTotals)
		r.Get("/fastest-growing", summaryHandler.FastestGrowing)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.PerMinute(opts.ChatRatePerMinute)))
		r.Post("/chatbot", chatHandler.Ask)
		r.Post("/chatbot/", chatHandler.Ask)
	})

	return r
}
