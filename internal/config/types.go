package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容秒数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 识别 "30s"、"5m" 或 "1.5" 这类秒值写法，durationDecodeHook 的字符串分支也经由此处解析。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// LogConfig 描述日志输出与滚动策略。
type LogConfig struct {
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}

// Config 是 TOML 文件映射的整体结构，所有字段均位于顶层。
type Config struct {
	ListenHost        string    `mapstructure:"ListenHost"`
	ListenPort        int       `mapstructure:"ListenPort"`
	RootDir           string    `mapstructure:"RootDir"`
	AllowOrigin       string    `mapstructure:"AllowOrigin"`
	EnableDiagnostics bool      `mapstructure:"EnableDiagnostics"`
	ShutdownTimeout   Duration  `mapstructure:"ShutdownTimeout"`
	Log               LogConfig `mapstructure:",squash"`
}

// ListenAddr 返回 host:port 形式的监听地址。
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

// Overrides 承载 CLI 层对配置的覆盖项，零值表示不覆盖。
type Overrides struct {
	RootDir    string
	ListenPort int
}
