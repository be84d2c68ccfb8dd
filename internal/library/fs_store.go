package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// NewStore 以 root 为根目录构建只读文件库，root 必须是已存在的目录。
func NewStore(root string) (Store, error) {
	if root == "" {
		return nil, errors.New("root directory required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}

	return &fileStore{
		fs:   osfs.New(abs, osfs.WithBoundOS()),
		root: abs,
	}, nil
}

// NewFilesystemStore 将任意 billy.Filesystem 包装为 Store，常用于 memfs 测试。
func NewFilesystemStore(filesystem billy.Filesystem) Store {
	root := filesystem.Root()
	if root == "" {
		root = "/"
	}
	return &fileStore{fs: filesystem, root: root}
}

type fileStore struct {
	fs   billy.Filesystem
	root string
}

func (s *fileStore) Root() string {
	return s.root
}

func (s *fileStore) Get(ctx context.Context, name string) (*ReadResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, ok := cleanName(name)
	if !ok {
		return nil, ErrNotFound
	}

	info, err := s.fs.Stat(rel)
	if err != nil {
		return nil, translateError(err)
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	f, err := s.fs.Open(rel)
	if err != nil {
		return nil, translateError(err)
	}

	return &ReadResult{
		Entry:  s.entry(rel, info),
		Reader: f,
	}, nil
}

func (s *fileStore) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.walk(ctx, "", &entries); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (s *fileStore) walk(ctx context.Context, dir string, out *[]Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	infos, err := s.fs.ReadDir(dir)
	if err != nil {
		return translateError(err)
	}

	for _, info := range infos {
		rel := path.Join(dir, info.Name())
		if info.Mode()&os.ModeSymlink != 0 {
			// 链接目标由 BoundOS 约束在根目录内解析
			resolved, err := s.fs.Stat(rel)
			if err != nil {
				continue
			}
			info = resolved
		}

		switch {
		case info.IsDir():
			if err := s.walk(ctx, rel, out); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			*out = append(*out, s.entry(rel, info))
		}
	}
	return nil
}

func (s *fileStore) entry(rel string, info fs.FileInfo) Entry {
	return Entry{
		Name:      rel,
		FilePath:  s.fs.Join(s.root, filepath.FromSlash(rel)),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}
}

// cleanName 将请求名称规整为根目录内的相对路径，无法越过根目录。
func cleanName(name string) (string, bool) {
	if strings.ContainsRune(name, 0) {
		return "", false
	}
	rel := path.Clean("/" + name)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." {
		return "", false
	}
	return rel, true
}

func translateError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, syscall.ENOTDIR),
		errors.Is(err, syscall.ENAMETOOLONG):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrForbidden
	default:
		return err
	}
}
