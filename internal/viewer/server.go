// Package viewer serves rendered charts and the analysis report over HTTP.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/gesturebench/internal/charts"
	"github.com/tensorplex-labs/gesturebench/internal/config"
	"github.com/tensorplex-labs/gesturebench/internal/report"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	App     *fiber.App
	config  *config.ViewerEnvConfig
	gallery charts.Gallery
	report  *report.Report
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><title>Gesture recognizer analysis</title></head>
<body>
<h1>Gesture recognizer analysis</h1>
{{if .Report}}<p>Selected recognizer: {{.Report.Selected}}, accuracy {{printf "%.1f" .Accuracy}}%</p>{{end}}
{{range .Names}}<figure><img src="/charts/{{.}}" alt="{{.}}"><figcaption>{{.}}</figcaption></figure>
{{end}}<p><a href="/report">report.json</a></p>
</body></html>`))

// NewServer builds the viewer app. A nil cfg uses the configuration defaults.
func NewServer(cfg *config.ViewerEnvConfig, gallery charts.Gallery, rep *report.Report) *Server {
	if cfg == nil {
		cfg = &config.ViewerEnvConfig{Address: "127.0.0.1", Port: 8090, BodySizeLimit: 1 << 20}
	}

	app := fiber.New(fiber.Config{
		Prefork:               false,
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		BodyLimit:             cfg.BodySizeLimit,
	})

	app.Use(recover.New())
	app.Use(ZstdMiddleware([]string{"/health"}))

	s := &Server{
		App:     app,
		config:  cfg,
		gallery: gallery,
		report:  rep,
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/", s.index)
	app.Get("/charts/:name", s.chart)
	app.Get("/report", s.reportJSON)

	return s
}

func (s *Server) index(c *fiber.Ctx) error {
	var sb strings.Builder
	data := struct {
		Names    []string
		Report   *report.Report
		Accuracy float64
	}{Names: s.gallery.Names(), Report: s.report}
	if s.report != nil {
		data.Accuracy = 100 * s.report.Accuracy
	}
	if err := indexTemplate.Execute(&sb, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(sb.String())
}

func (s *Server) chart(c *fiber.Ctx) error {
	name := c.Params("name")
	data, ok := s.gallery.Get(name)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("chart %q not found", name))
	}
	c.Type("png")
	return c.Send(data)
}

func (s *Server) reportJSON(c *fiber.Ctx) error {
	if s.report == nil {
		return fiber.NewError(fiber.StatusNotFound, "no report")
	}
	return c.JSON(s.report)
}

// Start listens until ctx is cancelled, then shuts the app down.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", "http://"+addr).Strs("charts", s.gallery.Names()).Msg("Chart viewer listening")
		errCh <- s.App.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down chart viewer")
		return s.App.ShutdownWithTimeout(shutdownTimeout)
	}
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(fiber.Map{"error": err.Error()})
}
