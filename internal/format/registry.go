package format

import (
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"
)

// DefaultContentType 是无法识别扩展名时使用的类型。
const DefaultContentType = "application/octet-stream"

// Format 记录一种可被服务的文件格式及其响应类型。
type Format struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Extensions  []string `json:"extensions"`
	ContentType string   `json:"content_type"`
}

var globalRegistry = newRegistry()

type registry struct {
	mu      sync.RWMutex
	formats map[string]Format
	byExt   map[string]string
}

func newRegistry() *registry {
	return &registry{
		formats: make(map[string]Format),
		byExt:   make(map[string]string),
	}
}

// Register 将格式加入全局注册表，重复键或重复扩展名会返回错误。
func Register(f Format) error {
	return globalRegistry.register(f)
}

// MustRegister 在注册失败时 panic，适合 init() 中调用。
func MustRegister(f Format) {
	if err := Register(f); err != nil {
		panic(err)
	}
}

// Resolve 返回指定键的格式。
func Resolve(key string) (Format, bool) {
	return globalRegistry.resolve(key)
}

// ForName 根据文件名扩展名查找格式，大小写不敏感。
func ForName(name string) (Format, bool) {
	return globalRegistry.forName(name)
}

// ContentType 返回文件名对应的 Content-Type：先查注册表，再查系统 MIME 表。
func ContentType(name string) string {
	if f, ok := ForName(name); ok {
		return f.ContentType
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}

// List 返回按键排序的格式列表。
func List() []Format {
	return globalRegistry.list()
}

// Keys 返回所有已注册格式的键值，供诊断使用。
func Keys() []string {
	items := List()
	result := make([]string, len(items))
	for i, f := range items {
		result[i] = f.Key
	}
	return result
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func normalizeExt(ext string) string {
	ext = normalizeKey(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (r *registry) register(f Format) error {
	key := normalizeKey(f.Key)
	if key == "" {
		return fmt.Errorf("format key is required")
	}
	if strings.TrimSpace(f.ContentType) == "" {
		return fmt.Errorf("format %s: content type is required", key)
	}
	f.Key = key

	exts := make([]string, 0, len(f.Extensions))
	for _, ext := range f.Extensions {
		if normalized := normalizeExt(ext); normalized != "" {
			exts = append(exts, normalized)
		}
	}
	if len(exts) == 0 {
		return fmt.Errorf("format %s: at least one extension is required", key)
	}
	f.Extensions = exts

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formats[key]; exists {
		return fmt.Errorf("format %s already registered", key)
	}
	for _, ext := range exts {
		if owner, exists := r.byExt[ext]; exists {
			return fmt.Errorf("extension %s already registered by %s", ext, owner)
		}
	}
	r.formats[key] = f
	for _, ext := range exts {
		r.byExt[ext] = key
	}
	return nil
}

func (r *registry) resolve(key string) (Format, bool) {
	normalized := normalizeKey(key)
	if normalized == "" {
		return Format{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[normalized]
	return f, ok
}

func (r *registry) forName(name string) (Format, bool) {
	ext := normalizeExt(path.Ext(name))
	if ext == "" {
		return Format{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byExt[ext]
	if !ok {
		return Format{}, false
	}
	return r.formats[key], true
}

func (r *registry) list() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.formats) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.formats))
	for key := range r.formats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Format, 0, len(keys))
	for _, key := range keys {
		f := r.formats[key]
		f.Extensions = append([]string(nil), f.Extensions...)
		result = append(result, f)
	}
	return result
}
