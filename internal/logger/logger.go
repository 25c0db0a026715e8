// Package logger builds the structured zap logger used by the wpstat driver.
package logger

import (
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AppName is attached to every log entry.
const AppName = "wpstat"

// Options controls logger construction.
type Options struct {
	Verbose bool      // debug level instead of warn
	File    string    // optional rotating JSON log file
	Console io.Writer // console sink, os.Stderr when nil
}

// New returns a logger tagged with a fresh run_id.
// Console output is human-readable; the optional file receives JSON.
func New(opts Options) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.CallerKey = "caller"
	encoderCfg.LevelKey = "level"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(console), level),
	}
	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		})
		// File always records at debug so a quiet console still leaves a trail.
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.DPanicLevel),
		zap.Fields(
			zap.String("app", AppName),
			zap.String("run_id", uuid.NewString()),
		),
	)
}
