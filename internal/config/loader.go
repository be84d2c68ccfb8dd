package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix 是所有配置环境变量的前缀，例如 SUBHUB_ROOTDIR。
const EnvPrefix = "SUBHUB"

// Load 读取并解析 TOML 配置文件，同时注入默认值、环境变量与校验逻辑。
// path 为空时仅使用默认值与环境变量。
func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, Overrides{})
}

// LoadWithOverrides 在校验前合并 CLI 覆盖项，使 --root 可以替换一个不存在的默认目录。
func LoadWithOverrides(path string, o Overrides) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(&cfg)

	root, err := resolveRootDir(cfg.RootDir, rootDirBase(path))
	if err != nil {
		return nil, err
	}
	cfg.RootDir = root

	if err := cfg.ApplyOverrides(o); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyOverrides 合并 CLI 覆盖项并重新校验；相对 RootDir 以当前工作目录为基准。
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.RootDir != "" {
		root, err := resolveRootDir(o.RootDir, "")
		if err != nil {
			return err
		}
		c.RootDir = root
	}
	if o.ListenPort != 0 {
		c.ListenPort = o.ListenPort
	}
	return c.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenHost", "127.0.0.1")
	v.SetDefault("ListenPort", 8000)
	v.SetDefault("RootDir", "./subs")
	v.SetDefault("AllowOrigin", "*")
	v.SetDefault("EnableDiagnostics", true)
	v.SetDefault("ShutdownTimeout", "5s")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

func applyDefaults(cfg *Config) {
	if cfg.ListenPort == 0 {
		cfg.ListenPort = 8000
	}
	if strings.TrimSpace(cfg.RootDir) == "" {
		cfg.RootDir = "./subs"
	}
	if cfg.ShutdownTimeout.DurationValue() == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "info"
	}
}

// rootDirBase 返回相对 RootDir 的解析基准：环境变量提供的值与 --root 一样以工作目录为准，
// 其余情况以配置文件所在目录为准。
func rootDirBase(path string) string {
	if value, ok := os.LookupEnv(EnvPrefix + "_ROOTDIR"); ok && strings.TrimSpace(value) != "" {
		return ""
	}
	return baseDirFor(path)
}

// baseDirFor 返回配置文件所在目录，作为相对 RootDir 的解析基准。
func baseDirFor(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

func resolveRootDir(root, base string) (string, error) {
	root = strings.TrimSpace(root)
	if !filepath.IsAbs(root) && base != "" {
		root = filepath.Join(base, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("无法解析 RootDir: %w", err)
	}
	return abs, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			var d Duration
			if err := d.UnmarshalText([]byte(v)); err != nil {
				return nil, fmt.Errorf("无法解析 Duration 字段: %w", err)
			}
			return d, nil
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
