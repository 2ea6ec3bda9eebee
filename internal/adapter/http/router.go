package http

import (
	"log/slog"
	"time"

	"resume-builder/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
)

// Client-rendered HTML for the PDF route can be large.
const bodyLimit = 8 << 20

const defaultPDFRequestTimeout = 2 * time.Minute

type RouterConfig struct {
	JWTSecret         string
	CORSAllowedOrigin string
	// RateLimiter guards /api. Nil disables rate limiting.
	RateLimiter *RateLimiter
	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer
	// PDFRequestTimeout bounds each PDF route, queueing for a browser
	// included. Zero uses defaultPDFRequestTimeout.
	PDFRequestTimeout time.Duration
	Logger            *slog.Logger
}

// NewApp builds the fiber app with every route registered.
func NewApp(h *Handler, cfg RouterConfig) *fiber.App {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	origin := cfg.CORSAllowedOrigin
	if origin == "" {
		origin = "*"
	}

	pdfTimeout := cfg.PDFRequestTimeout
	if pdfTimeout <= 0 {
		pdfTimeout = defaultPDFRequestTimeout
	}

	app := fiber.New(fiber.Config{
		AppName:               "resume-builder",
		ErrorHandler:          NewErrorHandler(log),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/healthz", h.Health)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(cfg.Gatherer)))
	}

	if cfg.RateLimiter != nil {
		app.Use("/api", cfg.RateLimiter.Middleware())
	}

	api := app.Group("/api/resumes")

	// public, no token
	api.Get("/public/:publicId", h.GetPublic)
	api.Get("/public/:publicId/pdf", RequestTimeout(pdfTimeout), h.PublicPDF)
	api.Get("/public/:publicId/preview", h.PublicPreview)

	auth := JWTAuth(cfg.JWTSecret)
	api.Get("/", auth, h.List)
	api.Post("/", auth, h.Create)
	api.Post("/validate", auth, h.Validate)
	api.Get("/:id", auth, h.Get)
	api.Put("/:id", auth, h.Replace)
	api.Delete("/:id", auth, h.Delete)
	api.Post("/:id/public", auth, h.Share)
	api.Get("/:id/pdf", auth, RequestTimeout(pdfTimeout), h.PDF)
	api.Post("/:id/pdf-from-html", auth, RequestTimeout(pdfTimeout), h.PDFFromHTML)
	api.Get("/:id/preview", auth, h.Preview)

	return app
}
