package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/subhub/internal/format"
	"github.com/any-hub/subhub/internal/library"
	"github.com/any-hub/subhub/internal/logging"
	"github.com/any-hub/subhub/internal/server"
)

// Handler 将请求名称映射为根目录内的文件并流式返回，CORS 头由 server 中间件负责。
type Handler struct {
	store  library.Store
	logger *logrus.Logger
}

// NewHandler constructs a responder over the shared library store.
func NewHandler(store library.Store, logger *logrus.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Respond 查找文件并返回正文；缺失返回 404，权限不足 403，其它读取错误 500。
func (h *Handler) Respond(c fiber.Ctx, name string) error {
	started := time.Now()
	requestID := server.RequestID(c)

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := h.store.Get(ctx, name)
	if err != nil {
		status, code := classifyError(err)
		h.logResult(c, requestID, name, status, 0, started, err)
		return h.writeError(c, status, code)
	}
	defer result.Reader.Close()

	return h.serveFile(c, result, requestID, started)
}

func (h *Handler) serveFile(c fiber.Ctx, result *library.ReadResult, requestID string, started time.Time) error {
	entry := result.Entry

	c.Set(fiber.HeaderContentType, format.ContentType(entry.Name))
	c.Response().Header.SetContentLength(int(entry.SizeBytes))
	c.Status(fiber.StatusOK)

	if c.Method() == http.MethodHead {
		h.logResult(c, requestID, entry.Name, fiber.StatusOK, 0, started, nil)
		return nil
	}

	written, err := io.Copy(c.Response().BodyWriter(), result.Reader)
	h.logResult(c, requestID, entry.Name, fiber.StatusOK, written, started, err)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("read file failed: %v", err))
	}
	return nil
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, library.ErrForbidden):
		return fiber.StatusForbidden, "forbidden"
	default:
		return fiber.StatusInternalServerError, "read_failed"
	}
}

func (h *Handler) writeError(c fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{"error": code})
}

func (h *Handler) logResult(
	c fiber.Ctx,
	requestID string,
	name string,
	status int,
	written int64,
	started time.Time,
	err error,
) {
	if h.logger == nil {
		return
	}
	fields := logging.RequestFields(requestID, c.Method(), name, status, written)
	fields["elapsed_ms"] = time.Since(started).Milliseconds()

	switch {
	case err == nil:
		h.logger.WithFields(fields).Info("serve_complete")
	case status == fiber.StatusNotFound:
		h.logger.WithFields(fields).Warn("serve_missing")
	default:
		fields["error"] = err.Error()
		h.logger.WithFields(fields).Error("serve_failed")
	}
}
