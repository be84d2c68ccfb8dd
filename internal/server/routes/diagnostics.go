package routes

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/subhub/internal/format"
	"github.com/any-hub/subhub/internal/library"
	"github.com/any-hub/subhub/internal/server"
	"github.com/any-hub/subhub/internal/version"
)

// DiagnosticsOptions 汇总 /-/ 诊断接口需要展示的运行信息。
type DiagnosticsOptions struct {
	Store       library.Store
	AllowOrigin string
	Logger      *logrus.Logger
}

// RegisterDiagnostics 暴露 /-/status、/-/files、/-/formats 诊断接口，
// 便于确认进程正在服务哪个目录以及目录下有哪些字幕文件。
func RegisterDiagnostics(app *fiber.App, opts DiagnosticsOptions) {
	if app == nil || opts.Store == nil {
		return
	}

	app.Get("/-/status", func(c fiber.Ctx) error {
		return c.JSON(statusPayload{
			Version:     version.Full(),
			RootDir:     opts.Store.Root(),
			AllowOrigin: opts.AllowOrigin,
			Formats:     format.Keys(),
		})
	})

	app.Get("/-/files", func(c fiber.Ctx) error {
		entries, err := opts.Store.List(c.Context())
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.WithFields(logrus.Fields{
					"action":     "list_files",
					"root_dir":   opts.Store.Root(),
					"request_id": server.RequestID(c),
					"error":      err.Error(),
				}).Error("failed to list root directory")
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "list_failed"})
		}
		return c.JSON(filesPayload{
			RootDir: opts.Store.Root(),
			Files:   encodeEntries(entries),
		})
	})

	app.Get("/-/formats", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"formats": format.List()})
	})
}

type statusPayload struct {
	Version     string   `json:"version"`
	RootDir     string   `json:"root_dir"`
	AllowOrigin string   `json:"allow_origin"`
	Formats     []string `json:"formats"`
}

type filesPayload struct {
	RootDir string        `json:"root_dir"`
	Files   []filePayload `json:"files"`
}

type filePayload struct {
	Name        string    `json:"name"`
	SizeBytes   int64     `json:"size_bytes"`
	ModTime     time.Time `json:"mod_time"`
	ContentType string    `json:"content_type"`
}

func encodeEntries(entries []library.Entry) []filePayload {
	result := make([]filePayload, 0, len(entries))
	for _, entry := range entries {
		result = append(result, filePayload{
			Name:        entry.Name,
			SizeBytes:   entry.SizeBytes,
			ModTime:     entry.ModTime.UTC(),
			ContentType: format.ContentType(entry.Name),
		})
	}
	return result
}
