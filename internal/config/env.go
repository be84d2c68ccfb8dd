package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile 将 .env 文件中的变量注入进程环境，已存在的变量不会被覆盖。
// 文件不存在时静默跳过。
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("读取 env 文件失败: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("解析 env 文件失败: %w", err)
	}
	return nil
}
