package library

import (
	"context"
	"errors"
	"io"
	"time"
)

// Store 负责根目录内文件的只读访问。所有名称均为相对根目录的 URL 路径风格。
type Store interface {
	// Get 返回一个可流式读取的文件。目录、缺失文件或越界路径返回 ErrNotFound，
	// 权限不足返回 ErrForbidden。
	Get(ctx context.Context, name string) (*ReadResult, error)

	// List 递归列出根目录下全部普通文件，按名称排序。
	List(ctx context.Context) ([]Entry, error)

	// Root 返回根目录描述，osfs 为绝对路径，内存文件系统为 "/"。
	Root() string
}

// Entry 描述根目录下的一个普通文件。
type Entry struct {
	Name      string    `json:"name"`
	FilePath  string    `json:"-"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// ReadResult 组合 Entry 与正文 Reader，调用方负责关闭 Reader。
type ReadResult struct {
	Entry  Entry
	Reader io.ReadSeekCloser
}

var (
	// ErrNotFound 表示名称无法解析为根目录内的普通文件。
	ErrNotFound = errors.New("file not found")
	// ErrForbidden 表示文件存在但当前进程无权读取。
	ErrForbidden = errors.New("file access forbidden")
)
