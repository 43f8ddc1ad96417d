package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger. With an empty logFile everything goes to
// stderr; otherwise output is duplicated into a size-rotated file.
func New(logFile string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if logFile == "" {
		return cfg.Build()
	}

	encoder := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), cfg.Level),
		zapcore.NewCore(encoder, fileSink, cfg.Level),
	)
	return zap.New(core), nil
}
