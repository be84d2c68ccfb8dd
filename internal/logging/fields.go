package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供单次文件请求的公共字段，供 responder 日志复用。
func RequestFields(requestID, method, name string, status int, bytes int64) logrus.Fields {
	fields := logrus.Fields{
		"action": "serve",
		"method": method,
		"name":   name,
		"status": status,
		"bytes":  bytes,
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	return fields
}
