package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format selects the output encoding (json, console).
	Format string `mapstructure:"format" default:"json"`
	// DedupSeconds is the cooldown window for repeated messages.
	// 0 disables deduplication.
	DedupSeconds int `mapstructure:"dedup_seconds" default:"5"`
}

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	logger, _, err := NewWithControl(cfg)
	return logger, err
}

// NewWithControl creates a logger and returns its level handle so the level
// can be adjusted at runtime.
func NewWithControl(cfg *Config) (*zap.Logger, zap.AtomicLevel, error) {
	var logger *zap.Logger
	var err error

	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	if level, parseErr := zapcore.ParseLevel(cfg.Level); parseErr == nil {
		config.Level = zap.NewAtomicLevelAt(level)
	}

	// Set format based on configuration
	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	logger, err = config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	if cfg.DedupSeconds > 0 {
		window := time.Duration(cfg.DedupSeconds) * time.Second
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return NewDedupCore(core, window)
		}))
	}

	return logger, config.Level, nil
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	rid := c.Locals("ray_id")
	if str, ok := rid.(string); ok && str != "" {
		return l.With(zap.String("ray_id", str))
	}
	return l
}
