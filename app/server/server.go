package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"helpdesk/app/config"
	"helpdesk/app/service/conversation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

const shutdownTimeout = 10 * time.Second

// Processor is the part of the conversation service the HTTP layer needs.
type Processor interface {
	ProcessMessage(ctx context.Context, conversationID, text string) (*conversation.Reply, error)
}

type Server struct {
	cfg       *config.Config
	processor Processor
	app       *fiber.App
	validate  *validator.Validate
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:       do.MustInvoke[*config.Config](di),
		processor: do.MustInvoke[*conversation.Service](di),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}

	s.app = newApp(s.cfg)
	s.registerRoutes(s.app)

	return s, nil
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			slog.Error("Request error", "error", err, "status", code)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	return app
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	slog.Info("HTTP server listening", "addr", addr)

	return s.app.Listen(addr)
}

func (s *Server) Close() error {
	return nil
}
