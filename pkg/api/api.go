package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/core/flow"
)

const (
	defaultListen     = ":8080"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// IntakeService runs patient consultations.
type IntakeService interface {
	ListProducts(ctx context.Context) []core.Product
	StartConsultation(ctx context.Context, userID, productID string) (*core.Response, error)
	CurrentQuestion(ctx context.Context, userID string) (*core.Response, error)
	SubmitAnswer(ctx context.Context, userID, questionID string, v flow.Value) (*core.Response, error)
	GoBack(ctx context.Context, userID string) (*core.Response, error)
	ResetFlow(ctx context.Context, userID string) error
	ConsultationStatus(ctx context.Context, userID string) ([]core.Consultation, error)
}

type Config struct {
	Listen string `mapstructure:"listen"`
}

// API exposes consultations over HTTP.
type API struct {
	intakeSvc IntakeService
	listen    string
}

func New(cfg *Config, intakeSvc IntakeService) *API {
	listen := cfg.Listen
	if listen == "" {
		listen = defaultListen
	}

	return &API{
		intakeSvc: intakeSvc,
		listen:    listen,
	}
}

// Run serves the API until ctx is done, then shuts the server down gracefully.
func (a *API) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.listen, err)
	}

	return a.serve(ctx, lis)
}

func (a *API) serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           a.newRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)

	go func() {
		slog.InfoContext(ctx, "Starting HTTP API", slog.String("addr", lis.Addr().String()))
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	slog.Info("Graceful shutdown completed")

	return nil
}

func (a *API) newRouter() http.Handler {
	r := mux.NewRouter()

	r.Use(withRequestID)

	r.HandleFunc("/health", a.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/products", a.listProducts).Methods(http.MethodGet)
	v1.HandleFunc("/users/{userID}/consultations", a.listConsultations).Methods(http.MethodGet)
	v1.HandleFunc("/users/{userID}/consultations", a.startConsultation).Methods(http.MethodPost)
	v1.HandleFunc("/users/{userID}/consultations/current", a.currentQuestion).Methods(http.MethodGet)
	v1.HandleFunc("/users/{userID}/consultations/current", a.resetFlow).Methods(http.MethodDelete)
	v1.HandleFunc("/users/{userID}/consultations/current/answers", a.submitAnswer).Methods(http.MethodPost)
	v1.HandleFunc("/users/{userID}/consultations/current/back", a.goBack).Methods(http.MethodPost)

	return r
}

// withRequestID tags the request context with an id picked up by the logger.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", reqID)

		// nolint:staticcheck // don't want to have dependecy on cmd package here for now
		ctx := context.WithValue(r.Context(), "req_id", reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
