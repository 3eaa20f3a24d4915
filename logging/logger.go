// Package logging 构建进程级 zap 日志器：
// 控制台输出始终开启，可选地附加一个按大小轮转的文件输出。
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 控制日志输出。
type Options struct {
	// Verbose 打开 debug 级别；默认 info。
	Verbose bool
	// File 非空时同时写入该路径，按大小轮转。
	File string
}

// New 构建日志器。调用方负责在退出前 Sync。
func New(opts Options) *zap.Logger {
	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		),
	}

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(rotating),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}
