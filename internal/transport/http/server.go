package http

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-pool/internal/config"
	"github.com/fleshka4/swap-pool/internal/service"
)

// Server represents the HTTP transport layer.
type Server struct {
	svc    service.Service
	router *mux.Router
	logger *zap.Logger

	graceTimeout      time.Duration
	readHeaderTimeout time.Duration
	requestTimeout    time.Duration
}

// NewServer creates a new HTTP server with registered routes.
func NewServer(svc service.Service, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		svc:    svc,
		router: mux.NewRouter(),
		logger: logger.Named("http"),

		graceTimeout:      cfg.GraceTimeout,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		requestTimeout:    cfg.RequestTimeout,
	}

	s.router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.logger.Warn("ping write error", zap.Error(err))
		}
	}).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/pools", s.handlePools).Methods(http.MethodGet)
	pools := s.router.PathPrefix("/pools/{pool}").Subrouter()
	pools.HandleFunc("", s.handlePool).Methods(http.MethodGet)
	pools.HandleFunc("/quote/swap", s.handleQuoteSwap).Methods(http.MethodGet)
	pools.HandleFunc("/quote/deposit-single", s.handleQuoteDepositSingle).Methods(http.MethodGet)
	pools.HandleFunc("/quote/withdraw-single", s.handleQuoteWithdrawSingle).Methods(http.MethodGet)
	pools.HandleFunc("/quote/pool-tokens", s.handleQuotePoolTokens).Methods(http.MethodGet)
	pools.HandleFunc("/swap", s.handleSwap).Methods(http.MethodPost)
	pools.HandleFunc("/deposit", s.handleDepositAll).Methods(http.MethodPost)
	pools.HandleFunc("/deposit-single", s.handleDepositSingle).Methods(http.MethodPost)
	pools.HandleFunc("/withdraw", s.handleWithdrawAll).Methods(http.MethodPost)
	pools.HandleFunc("/withdraw-single", s.handleWithdrawSingle).Methods(http.MethodPost)

	return s
}

// ListenAndServe starts the HTTP server and enables graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.logMiddleware(s.router),
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Block until a signal is received.
	select {
	case <-stop:
	case err := <-errCh:
		return errors.Wrap(err, "srv.ListenAndServe")
	}
	s.logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.graceTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "srv.Shutdown")
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logMiddleware logs each HTTP request and the time taken to process it.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
