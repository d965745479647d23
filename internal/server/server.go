package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/repositories"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const maxRequestBody = "1M"

// Server owns the echo instance and the background work tied to its lifetime
type Server struct {
	echo    *echo.Echo
	cfg     *config.Config
	logger  *slog.Logger
	limiter *middleware.RateLimiter
}

// New wires repositories, services and handlers over db and registers every
// route. Collectors are registered on reg, which also backs /metrics.
func New(cfg *config.Config, db *database.DB, logger *slog.Logger, reg *prometheus.Registry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	metrics := services.NewPrometheusMetrics(reg)
	activity := services.NewActivityLogger(logger)
	clock := services.NewClock(cfg.Ledger.Location, time.Now)

	userRepo := repositories.NewUserRepository(db.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db.DB)
	auditRepo := repositories.NewAuditLogRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	budgetRepo := repositories.NewBudgetRepository(db.DB)

	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost, cfg.Security.PasswordMinLength)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, auditRepo, passwordService, tokenService, metrics, logger)
	transactionService := services.NewTransactionService(transactionRepo, activity, metrics, cfg.Ledger, clock)
	budgetService := services.NewBudgetService(budgetRepo, transactionRepo, activity, metrics, clock)
	dashboardService := services.NewDashboardService(transactionRepo, budgetRepo, activity, metrics, cfg.Ledger, clock)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(logger, metrics)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery(logger))
	e.Use(requestLogger(logger))
	e.Use(middleware.RequestMetrics(metrics))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))
	e.Use(echomw.BodyLimit(maxRequestBody))
	e.Use(echomw.Gzip())

	s := &Server{
		echo:    e,
		cfg:     cfg,
		logger:  logger,
		limiter: middleware.NewRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst),
	}

	routes{
		auth:         handlers.NewAuthHandler(authService),
		transactions: handlers.NewTransactionHandler(transactionService, cfg.Ledger),
		budgets:      handlers.NewBudgetHandler(budgetService),
		dashboard:    handlers.NewDashboardHandler(dashboardService),
		health:       handlers.NewHealthCheckHandler(db.DB),
		requireAuth:  middleware.RequireAuth(tokenService),
		rateLimit:    s.limiter.Middleware(),
	}.register(e)

	if cfg.Server.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}

	return s
}

// Handler exposes the configured http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on the configured address until ctx is done, then drains
// in-flight requests within the shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port))
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is Run over an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.limiter.Run(gctx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info("fintrack api listening", "addr", listener.Addr().String(), "environment", s.cfg.Server.Environment)
		s.echo.Listener = listener
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down http server", "timeout", s.cfg.Server.ShutdownTimeout.String())
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
			return err
		}
		return nil
	})

	return g.Wait()
}

// requestLogger logs one line per completed request
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request complete",
				slog.String("trace_id", middleware.GetTraceID(c)),
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}
