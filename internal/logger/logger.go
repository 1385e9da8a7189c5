package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service names the storefront on every log line.
const Service = "shopco-storefront"

var log *zap.Logger

// Init builds the global logger for env. Production logs JSON to stdout, any
// other env the colored console format. A non-empty level ("debug", "warn"...)
// overrides the env default.
func Init(env, level string) {
	l, err := build(env, level)
	if err != nil {
		panic(err)
	}
	log = l
}

func build(env, level string, opts ...zap.Option) (*zap.Logger, error) {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.LevelKey = "level"
		cfg.EncoderConfig.CallerKey = "caller"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	badLevel := false
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			badLevel = true
		} else {
			cfg.Level = lvl
		}
	}

	if env == "" {
		env = "development"
	}
	// Extra options go first so a wrapped core still gets the base fields.
	opts = append(opts,
		zap.AddCaller(),
		zap.Fields(zap.String("service", Service), zap.String("env", env)),
	)
	l, err := cfg.Build(opts...)
	if err != nil {
		return nil, err
	}
	if badLevel {
		l.Warn("unknown log level, keeping the default", zap.String("level", level))
	}
	return l, nil
}

// L returns the global logger.
func L() *zap.Logger {
	if log == nil {
		Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	}
	return log
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

// Sync flushes logs.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
