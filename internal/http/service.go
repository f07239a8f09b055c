package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/product-catalog/api-contract"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	productSvc    service.ProductService
	validator     validator.Validator
	healthChecker db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	productSvc service.ProductService,
	validator validator.Validator,
	healthChecker db.HealthChecker,
) *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		registry:      registry,
		metrics:       metric.New(registry),
		productSvc:    productSvc,
		validator:     validator,
		healthChecker: healthChecker,
	}
}

// Handler builds the router serving every endpoint of the service.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r, swagger.Options{
			Title: "Product Catalog API",
			Spec:  apicontract.GetSpecBytes(),
		})
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server stopped unexpectedly", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsAllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	health := newHealthHandler(s.healthChecker, s.logger)
	r.Get("/healthz", s.handle(health.GetHealth))

	products := newProductHandler(s.productSvc, s.validator, s.logger)
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", s.handle(products.ListProducts))
		r.Post("/", s.handle(products.CreateProduct))
		r.Get("/search", s.handle(products.SearchProducts))
		r.Get("/low-stock", s.handle(products.ListLowStockProducts))
		r.Get("/{id}", s.handle(products.GetProduct))
		r.Put("/{id}", s.handle(products.UpdateProduct))
		r.Delete("/{id}", s.handle(products.DeleteProduct))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, apierr.ErrorResponse{
			Code:    "notFound",
			Message: fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, apierr.ErrorResponse{
			Code:    "methodNotAllowed",
			Message: fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path),
		})
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is a handler that reports failures by returning them. A
// requestError means the request itself could not be read.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type requestError struct {
	err error
}

func (e requestError) Error() string { return e.err.Error() }

func (e requestError) Unwrap() error { return e.err }

func newRequestError(err error) error {
	return requestError{err: err}
}

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var reqErr requestError
		if errors.As(err, &reqErr) {
			s.handleRequestError(w, r, reqErr.err)
			return
		}
		s.handleResponseError(w, r, err)
	}
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.NewRequestError(err)
	s.logger.WarnContext(r.Context(), "http request error", slog.Any("error", err))
	s.writeError(w, r, res.StatusCode, res)
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	s.writeError(w, r, res.StatusCode, res)
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, status int, res apierr.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

// writeJSON writes v as the response body. The status is already sent when
// encoding fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}
