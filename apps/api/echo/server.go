package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/otp"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc       user.Service
		OTPSvc        otp.Service
		StudentSvc    student.Service
		AssessmentSvc assessment.Service
		RemedialSvc   remedial.Service
		ResourceSvc   resource.Service

		// HealthCheck reports store readiness; nil means always healthy.
		HealthCheck func() error
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	g := s.app.Group("/api")
	g.GET("/ping", ping)
	g.GET("/health", healthHandler(s.opts.HealthCheck))

	jwt := authMiddleware(conf)
	staff := rolesMiddleware(user.RoleAdmin, user.RoleTeacher)

	registerAuthAPI(g, s.opts)
	registerOTPAPI(g, s.opts)
	registerStudentAPI(g, jwt, staff, s.opts)
	registerAcademicsAPI(g, jwt, staff, s.opts)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Shule API!")
}

func ping(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": "ping"})
}

func healthHandler(check func() error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if check != nil {
			if err := check(); err != nil {
				return ctx.JSON(http.StatusServiceUnavailable, echo.Map{
					"status":   "error",
					"message":  "database not connected",
					"reason":   err.Error(),
					"database": false,
				})
			}
		}
		return ctx.JSON(http.StatusOK, echo.Map{
			"status":   "ok",
			"message":  "database connected",
			"database": true,
		})
	}
}
