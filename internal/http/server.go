package http

import (
	"context"
	"net/http"
	"time"

	"cashbook/internal/categorize"
	"cashbook/internal/core"
	"cashbook/internal/filter"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/middleware/ratelimit"
	"cashbook/internal/middleware/security"
	"cashbook/internal/middleware/trace"
	"cashbook/internal/services"
)

// TransactionAPI is what the handlers need from the transaction service.
type TransactionAPI interface {
	Create(ctx context.Context, form core.EntryForm) (core.Transaction, error)
	Update(ctx context.Context, id string, form core.EntryForm) (core.Transaction, error)
	Get(ctx context.Context, id string) (core.Transaction, error)
	EditForm(ctx context.Context, id string) (core.EntryForm, error)
	Delete(ctx context.Context, id string, confirmed bool) error
	Clear(ctx context.Context, confirmed bool) error
	List(ctx context.Context, q filter.Query) (services.ListResult, error)
	Overview(ctx context.Context, w filter.Window) (ledger.Overview, error)
	Report(ctx context.Context, w filter.Window) (services.ReportView, error)
	Categories() []string
	Suggest(note string) categorize.Suggestion
	DateLayout() string
	RequestExport(ctx context.Context, w filter.Window) (services.ExportResult, error)
}

var _ TransactionAPI = (*services.TransactionService)(nil)

// Options configures a Server. Zero values get defaults.
type Options struct {
	Logger   *log.Logger
	Limiter  *ratelimit.Limiter
	ClientIP *security.ClientIP
	// Ready reports backend health for /readyz.
	Ready    func(ctx context.Context) error
	Location *time.Location
}

type Server struct {
	http.Server
	api      TransactionAPI
	logger   *log.Logger
	ready    func(ctx context.Context) error
	location *time.Location
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, api TransactionAPI, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.ClientIP == nil {
		opts.ClientIP = security.NewClientIP()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	s := &Server{
		api:      api,
		logger:   opts.Logger.WithComponent(log.ComponentHTTP),
		ready:    opts.Ready,
		location: opts.Location,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions", s.handleClearTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/transactions/{id}/form", s.handleEditForm)

	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("POST /api/categories/suggest", s.handleSuggest)
	mux.HandleFunc("POST /api/exports", s.handleExport)

	var handler http.Handler = mux
	handler = opts.Limiter.Middleware(opts.ClientIP.Extract, handleRateLimited)(handler)
	handler = security.Headers(security.APIHeadersConfig())(handler)
	handler = trace.NewMiddleware(opts.Logger, opts.ClientIP.Extract).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Write(w, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			NewJSONResponse().Status(http.StatusServiceUnavailable).
				Write(w, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	NewJSONResponse().Write(w, map[string]string{"status": "ready"})
}

func handleRateLimited(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Status(http.StatusTooManyRequests).
		Write(w, errorBody{Error: "rate limit exceeded, try again later"})
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	return s.Server.Shutdown(ctx)
}
