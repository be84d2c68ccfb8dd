package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Responder describes the component that turns a request name into a file
// response. It allows injecting fake responders during tests.
type Responder interface {
	Respond(c fiber.Ctx, name string) error
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(fiber.Ctx, string) error

// Respond makes ResponderFunc satisfy Responder.
func (f ResponderFunc) Respond(c fiber.Ctx, name string) error {
	return f(c, name)
}

// AppOptions controls how the Fiber application is assembled.
type AppOptions struct {
	Logger      *logrus.Logger
	Responder   Responder
	AllowOrigin string
	// Diagnostics 为 true 时 /-/ 前缀留给 routes 包的诊断接口，否则按普通文件处理。
	Diagnostics bool
}

const contextKeyRequestID = "_subhub_request_id"

// NewApp builds a Fiber application with request-id, CORS and a single
// catch-all route delegating to the Responder.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Responder == nil {
		return nil, errors.New("responder is required")
	}
	if strings.TrimSpace(opts.AllowOrigin) == "" {
		opts.AllowOrigin = "*"
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware())
	app.Use(corsMiddleware(opts.AllowOrigin))

	app.All("/*", func(c fiber.Ctx) error {
		path := string(c.Request().URI().Path())
		if opts.Diagnostics && isDiagnosticsPath(path) {
			return c.Next()
		}
		if !isServedMethod(c.Method()) {
			return renderMethodNotAllowed(c, opts.Logger, path)
		}
		return opts.Responder.Respond(c, strings.TrimPrefix(path, "/"))
	})

	return app, nil
}

// requestContextMiddleware 为每个请求生成请求 ID 并写入响应头。
func requestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

func renderMethodNotAllowed(c fiber.Ctx, logger *logrus.Logger, path string) error {
	logger.WithFields(logrus.Fields{
		"action":     "method_check",
		"method":     c.Method(),
		"path":       path,
		"request_id": RequestID(c),
	}).Warn("method not allowed")

	c.Set(fiber.HeaderAllow, allowedMethods)
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error": "method_not_allowed",
	})
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isServedMethod(method string) bool {
	return method == fiber.MethodGet || method == fiber.MethodHead
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
