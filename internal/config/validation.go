package config

import (
	"errors"
	"os"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if strings.Contains(c.ListenHost, " ") {
		return newFieldError("ListenHost", "不允许包含空格")
	}
	if strings.TrimSpace(c.AllowOrigin) == "" {
		return newFieldError("AllowOrigin", "不能为空")
	}
	if c.ShutdownTimeout.DurationValue() <= 0 {
		return newFieldError("ShutdownTimeout", "必须大于 0")
	}
	if c.Log.LogMaxSize < 0 || c.Log.LogMaxBackups < 0 {
		return newFieldError("LogMaxSize/LogMaxBackups", "不能为负数")
	}
	return validateRootDir(c.RootDir)
}

func validateRootDir(root string) error {
	if root == "" {
		return newFieldError("RootDir", "不能为空")
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newFieldError("RootDir", "目录不存在: "+root)
		}
		return newFieldError("RootDir", err.Error())
	}
	if !info.IsDir() {
		return newFieldError("RootDir", "必须是目录: "+root)
	}
	return nil
}
