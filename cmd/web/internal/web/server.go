package web

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"thirdcoast.systems/songforge/cmd/web/handlers/api/callback_api"
	"thirdcoast.systems/songforge/cmd/web/handlers/api/fileserver"
	"thirdcoast.systems/songforge/cmd/web/handlers/api/generation_api"
	"thirdcoast.systems/songforge/cmd/web/handlers/api/song_api"
	"thirdcoast.systems/songforge/cmd/web/handlers/content"
	"thirdcoast.systems/songforge/internal/callback"
	"thirdcoast.systems/songforge/internal/db"
	"thirdcoast.systems/songforge/internal/mediafetch"
	"thirdcoast.systems/songforge/internal/metrics"
	"thirdcoast.systems/songforge/internal/suno"
)

// Dependencies are the components built in main from the process config.
type Dependencies struct {
	Provider  *suno.Client
	Gateway   *db.Gateway
	Processor *callback.Processor
	Media     *mediafetch.Root
	Metrics   *metrics.Metrics
}

type Webserver struct {
	*echo.Echo
	provider   *suno.Client
	gateway    *db.Gateway
	processor  *callback.Processor
	media      *mediafetch.Root
	metrics    *metrics.Metrics
	fileServer *fileserver.FileServer
}

// requestValidator adapts go-playground/validator to echo.Validator.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

func NewWebserver(ctx context.Context, deps Dependencies) (*Webserver, error) {
	e := echo.New()
	e.Validator = &requestValidator{validate: validator.New()}

	webserver := &Webserver{
		Echo:       e,
		provider:   deps.Provider,
		gateway:    deps.Gateway,
		processor:  deps.Processor,
		media:      deps.Media,
		metrics:    deps.Metrics,
		fileServer: fileserver.NewFileServer(),
	}

	if err := webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	if err := webserver.registerRoutes(); err != nil {
		return nil, err
	}

	return webserver, nil
}

func isQuietPath(path string) bool {
	switch path {
	case "/health", "/metrics":
		return true
	default:
		return false
	}
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("2M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, mediafetch.PublicPrefix)
		},
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return isQuietPath(c.Path())
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	return nil
}

func (s *Webserver) registerRoutes() error {
	s.GET("/", content.HandleHomePage())
	s.GET("/health", content.HandleHealth())

	s.POST("/boost-style", generation_api.HandleBoostStyle(s.provider))
	s.POST("/generate-music", generation_api.HandleGenerateMusic(s.provider))
	s.GET("/record-info/:task_id", generation_api.HandleRecordInfo(s.provider))

	s.POST("/callback", callback_api.HandleCallback(s.processor))

	s.GET("/db-all", song_api.HandleDBAll(s.gateway))

	s.GET(mediafetch.PublicPrefix+"*", fileserver.HandleMedia(s.media, s.fileServer))

	if s.metrics != nil {
		s.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	return nil
}
