package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/attendance"
	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/feedback"
	"github.com/shulehq/shule/core/grade"
	"github.com/shulehq/shule/core/payment"
	"github.com/shulehq/shule/core/school"
	"github.com/shulehq/shule/core/user"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		DB             *sqlx.DB
		UserSvc        *user.Service
		SchoolSvc      *school.Service
		EnrollmentSvc  *enrollment.Service
		AttendanceSvc  *attendance.Service
		GradeSvc       *grade.Service
		PaymentSvc     *payment.Service
		FeedbackSvc    *feedback.Service
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(requestIDMiddleware())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(metricsMiddleware())
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode()) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.HideBanner = true

	s.app.GET("/healthz", s.healthz)
	s.app.GET("/metrics", echo.WrapHandler(metricsHandler()))

	registerUserAPI(s.app, s.deps.UserSvc)
	registerSchoolAPI(s.app, s.deps.SchoolSvc)
	registerEnrollmentAPI(s.app, s.deps.EnrollmentSvc, s.deps.SchoolSvc)
	registerAttendanceAPI(s.app, s.deps.AttendanceSvc, s.deps.SchoolSvc)
	registerGradeAPI(s.app, s.deps.GradeSvc)
	registerPaymentAPI(s.app, s.deps.PaymentSvc)
	registerFeedbackAPI(s.app, s.deps.FeedbackSvc)
}

func (s *server) Start() {
	s.errCh <- s.app.Start(s.deps.Conf.ServerAddress())
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) healthz(ctx echo.Context) error {
	start := time.Now()
	if err := s.deps.DB.PingContext(ctx.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unreachable")
	}
	observeDBPing(time.Since(start))
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
