package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"salon-system/appointment"
	"salon-system/metrics"
	"salon-system/product"
	"salon-system/sale"
	"salon-system/schedule"
	"salon-system/service"

	"cloud.google.com/go/civil"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type API struct {
	root   *mux.Router
	router *mux.Router
	db     *sql.DB

	logger      *slog.Logger
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	catalog     *service.CachedCatalog
	jwtSecret   string
	locale      string
	corsOrigins []string
	now         func() time.Time
}

type Option func(*API)

func WithLogger(logger *slog.Logger) Option {
	return func(a *API) { a.logger = logger }
}

// WithMetrics records domain counters on m and serves gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(a *API) {
		a.metrics = m
		a.gatherer = gatherer
	}
}

// WithCatalogCache routes catalog lookups through a Redis cache. The cache is
// invalidated on every service write.
func WithCatalogCache(c *service.CachedCatalog) Option {
	return func(a *API) { a.catalog = c }
}

func WithJWTSecret(secret string) Option {
	return func(a *API) { a.jwtSecret = secret }
}

// WithLocale sets the calendar locale used when a request names none.
func WithLocale(locale string) Option {
	return func(a *API) { a.locale = locale }
}

func WithCORSOrigins(origins []string) Option {
	return func(a *API) { a.corsOrigins = origins }
}

func WithClock(now func() time.Time) Option {
	return func(a *API) { a.now = now }
}

func NewAPI(db *sql.DB, opts ...Option) *API {
	root := mux.NewRouter()
	a := &API{
		root:   root,
		router: root.PathPrefix("/api").Subrouter(),
		db:     db,
		logger: slog.Default(),
		locale: "pt-BR",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) Router() *mux.Router {
	return a.root
}

func (a *API) Handler() http.Handler {
	var h http.Handler = a.root
	if len(a.corsOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(a.corsOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(h)
	}
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(slog.NewLogLogger(a.logger.Handler(), slog.LevelError)))(h)
	// Use Gorilla's built-in logging handler
	return handlers.LoggingHandler(os.Stdout, h)
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Error maps domain errors to status codes. Anything unrecognised is logged
// and reported as a 500.
func (a *API) Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidTransition),
		errors.Is(err, appointment.ErrNotScheduled),
		errors.Is(err, product.ErrNegativeStock):
		a.Response(w, http.StatusConflict, err.Error())
	case isForeignKeyViolation(err):
		a.Response(w, http.StatusConflict, "record is still referenced")
	case errors.Is(err, appointment.ErrUnknownServices),
		errors.Is(err, appointment.ErrUnknownClient),
		errors.Is(err, appointment.ErrUnknownEmployee),
		errors.Is(err, sale.ErrUnknownClient),
		errors.Is(err, sale.ErrUnknownEmployee),
		errors.Is(err, sale.ErrUnknownAppointment),
		errors.Is(err, sale.ErrUnknownProduct),
		errors.Is(err, sale.ErrUnknownService),
		errors.Is(err, sale.ErrInvalidRange),
		errors.Is(err, appointment.ErrCrossesMidnight),
		errors.Is(err, appointment.ErrInvalidRange),
		errors.Is(err, schedule.ErrInvalidTime),
		errors.Is(err, schedule.ErrInvalidDuration):
		a.Response(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		a.Response(w, http.StatusInternalServerError, err.Error())
	}
}

// foreignKeyViolationCode is the postgres SQLSTATE for foreign_key_violation.
const foreignKeyViolationCode = "23503"

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolationCode
}

func (a *API) RegisterRoutes() {
	gatherer := a.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	a.root.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	a.router.Use(a.timed)
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/users", a.createUser).Methods(http.MethodPost)

	r := a.router.NewRoute().Subrouter()
	r.Use(a.authenticate)

	r.HandleFunc("/me", a.me).Methods(http.MethodGet)

	r.HandleFunc("/services", a.createService).Methods(http.MethodPost)
	r.HandleFunc("/services", a.listServices).Methods(http.MethodGet)
	r.HandleFunc("/services/{id}", a.getService).Methods(http.MethodGet)
	r.HandleFunc("/services/{id}", a.updateService).Methods(http.MethodPut)
	r.HandleFunc("/services/{id}", a.deleteService).Methods(http.MethodDelete)

	r.HandleFunc("/clients", a.createClient).Methods(http.MethodPost)
	r.HandleFunc("/clients", a.listClients).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", a.getClient).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}/history", a.clientHistory).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}", a.updateClient).Methods(http.MethodPut)
	r.HandleFunc("/clients/{id}", a.deleteClient).Methods(http.MethodDelete)

	r.HandleFunc("/employees", a.createEmployee).Methods(http.MethodPost)
	r.HandleFunc("/employees", a.listEmployees).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id}", a.getEmployee).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id}", a.updateEmployee).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id}", a.deleteEmployee).Methods(http.MethodDelete)

	r.HandleFunc("/products", a.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", a.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/low-stock", a.listLowStock).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", a.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", a.updateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", a.deleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/products/{id}/stock", a.adjustStock).Methods(http.MethodPost)

	r.HandleFunc("/appointments/quote", a.quoteAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments/upcoming", a.listUpcoming).Methods(http.MethodGet)
	r.HandleFunc("/appointments/summary", a.daySummary).Methods(http.MethodGet)
	r.HandleFunc("/appointments", a.createAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments", a.listAppointments).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", a.getAppointment).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", a.updateAppointment).Methods(http.MethodPut)
	r.HandleFunc("/appointments/{id}", a.deleteAppointment).Methods(http.MethodDelete)
	r.HandleFunc("/appointments/{id}/complete", a.completeAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments/{id}/cancel", a.cancelAppointment).Methods(http.MethodPost)

	r.HandleFunc("/sales", a.createSale).Methods(http.MethodPost)
	r.HandleFunc("/sales", a.listSales).Methods(http.MethodGet)
	r.HandleFunc("/sales/{id}", a.getSale).Methods(http.MethodGet)

	r.HandleFunc("/reports", a.report).Methods(http.MethodGet)

	r.HandleFunc("/calendar", a.calendar).Methods(http.MethodGet)
}

// timed records request latency per route template.
func (a *API) timed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		a.metrics.ObserveRequest(route, r.Method, time.Since(start).Seconds())
	})
}

// catalogSource prefers the Redis cache when one is configured.
func (a *API) catalogSource() service.CatalogSource {
	if a.catalog != nil {
		return a.catalog
	}
	return service.NewAccessor(a.db)
}

func (a *API) invalidateCatalog(r *http.Request) {
	if a.catalog == nil {
		return
	}
	uid, _ := sessionUser(r)
	if err := a.catalog.Invalidate(r.Context(), uid); err != nil {
		a.logger.WarnContext(r.Context(), "catalog invalidate failed", "user_id", uid, "error", err)
	}
}

func (a *API) today() civil.Date {
	return civil.DateOf(a.now())
}
