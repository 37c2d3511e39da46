package http

import (
	"embed"
	"io/fs"
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/ratelimit"
	"github.com/donghyeon639/SYU-Spring-web/internal/service"
	"github.com/donghyeon639/SYU-Spring-web/pkg/utils"
)

//go:embed views
var viewsFS embed.FS

const sessionCookie = "syucap_session"

// Config configures the web application.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SessionStorage defaults to fiber's in-memory storage when nil.
	SessionStorage fiber.Storage
	SessionTTL     time.Duration
	CookieSecure   bool

	LoginLimit ratelimit.Config
}

// NewApp builds the fiber application with every route registered.
func NewApp(cfg Config, svc *service.Services, store domain.Store, logger zerolog.Logger) (*fiber.App, error) {
	views, err := newViews()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      "SYU Capstone Meetups",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: NewErrorHandler(logger),
		Views:        views,
		ViewsLayout:  "layouts/main",
		UnescapePath: true,
	})

	// Middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(AccessLog(logger))
	app.Use(recover.New())

	sessions := session.New(session.Config{
		Storage:        cfg.SessionStorage,
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:" + sessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: "Lax",
	})

	h := NewHandler(svc, store, sessions, logger)
	SetupRoutes(app, h, ratelimit.New("login", cfg.LoginLimit))
	return app, nil
}

func newViews() (*html.Engine, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(nethttp.FS(sub), ".html")
	engine.AddFunc("datetime", utils.FormatDateTime)
	engine.AddFunc("datetimeLocal", utils.DateTimeLocal)
	engine.AddFunc("truncate", utils.Truncate)
	engine.AddFunc("fill", utils.FillPercent)
	engine.AddFunc("boardURL", boardURL)
	engine.AddFunc("deref", func(n *int) int {
		if n == nil {
			return 0
		}
		return *n
	})
	return engine, nil
}
