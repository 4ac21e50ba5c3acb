// Package logging 构建进程内共用的 zap 结构化日志
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 返回写到 stderr 的 JSON 日志，level 无法识别时退回 info
func New(level string, defaultFields map[string]any) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	// 批处理要的是完整记录，不做采样
	cfg.Sampling = nil

	opts := []zap.Option{zap.WithCaller(true)}
	for k, v := range defaultFields {
		opts = append(opts, zap.Fields(zap.Any(k, v)))
	}
	return cfg.Build(opts...)
}

func ParseLevel(level string) zapcore.Level {
	levelMap := map[string]zapcore.Level{
		"error":   zap.ErrorLevel,
		"warn":    zap.WarnLevel,
		"warning": zap.WarnLevel,
		"info":    zap.InfoLevel,
		"debug":   zap.DebugLevel,
	}
	l, ok := levelMap[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return zap.InfoLevel
	}
	return l
}
