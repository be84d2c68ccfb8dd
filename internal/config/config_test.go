package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(testConfigPath(t, "valid.toml"))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if cfg.ListenAddr() != "127.0.0.1:8000" {
		t.Fatalf("unexpected listen addr: %s", cfg.ListenAddr())
	}
	if cfg.ShutdownTimeout.DurationValue() != 3*time.Second {
		t.Fatalf("ShutdownTimeout 应解析为 3s，得到 %s", cfg.ShutdownTimeout.DurationValue())
	}
	if !cfg.EnableDiagnostics {
		t.Fatalf("EnableDiagnostics 默认应开启")
	}
	if cfg.Log.LogMaxBackups != 10 {
		t.Fatalf("LogMaxBackups 应使用默认值")
	}
	if !filepath.IsAbs(cfg.RootDir) {
		t.Fatalf("RootDir 应转换为绝对路径: %s", cfg.RootDir)
	}
}

func TestLoadResolvesRootDirAgainstConfigFile(t *testing.T) {
	cfg, err := Load(testConfigPath(t, "valid.toml"))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join("testdata", "subs"))
	if cfg.RootDir != want {
		t.Fatalf("RootDir 应相对配置文件解析，期望 %s 得到 %s", want, cfg.RootDir)
	}
}

func TestValidateRejectsMissingRootDir(t *testing.T) {
	_, err := Load(testConfigPath(t, "missing.toml"))
	if err == nil {
		t.Fatalf("不存在的 RootDir 应返回错误")
	}
	var fieldErr FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "RootDir" {
		t.Fatalf("expected RootDir field error, got %v", err)
	}
}

func TestValidateRejectsFileAsRootDir(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "plain.srt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
	cfg.RootDir = file
	if err := cfg.Validate(); err == nil {
		t.Fatalf("RootDir 指向文件时应报错")
	}
}

func TestValidateEnforcesListenPortRange(t *testing.T) {
	cfg := validConfig(t)
	cfg.ListenPort = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatalf("ListenPort 超出范围应当报错")
	}
}

func TestValidateRequiresAllowOrigin(t *testing.T) {
	cfg := validConfig(t)
	cfg.AllowOrigin = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatalf("AllowOrigin 为空时应报错")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := validConfig(t)
	other := t.TempDir()

	if err := cfg.ApplyOverrides(Overrides{RootDir: other, ListenPort: 9001}); err != nil {
		t.Fatalf("覆盖失败: %v", err)
	}
	if cfg.RootDir != other {
		t.Fatalf("RootDir 未被覆盖: %s", cfg.RootDir)
	}
	if cfg.ListenPort != 9001 {
		t.Fatalf("ListenPort 未被覆盖: %d", cfg.ListenPort)
	}

	if err := cfg.ApplyOverrides(Overrides{RootDir: filepath.Join(other, "nope")}); err == nil {
		t.Fatalf("覆盖为不存在目录时应报错")
	}
}

func TestApplyOverridesKeepsZeroValues(t *testing.T) {
	cfg := validConfig(t)
	root := cfg.RootDir
	if err := cfg.ApplyOverrides(Overrides{}); err != nil {
		t.Fatalf("空覆盖不应失败: %v", err)
	}
	if cfg.RootDir != root || cfg.ListenPort != 8000 {
		t.Fatalf("空覆盖不应修改配置")
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		ListenHost:      "127.0.0.1",
		ListenPort:      8000,
		RootDir:         t.TempDir(),
		AllowOrigin:     "*",
		ShutdownTimeout: Duration(time.Second),
		Log:             LogConfig{LogLevel: "info"},
	}
}

func TestLoadWithOverridesReplacesMissingRootDir(t *testing.T) {
	other := t.TempDir()
	cfg, err := LoadWithOverrides(testConfigPath(t, "missing.toml"), Overrides{RootDir: other, ListenPort: 8100})
	if err != nil {
		t.Fatalf("覆盖后的 RootDir 应通过校验: %v", err)
	}
	if cfg.RootDir != other || cfg.ListenPort != 8100 {
		t.Fatalf("覆盖项未生效: %+v", cfg)
	}
}
