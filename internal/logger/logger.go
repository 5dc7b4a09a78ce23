package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	RequestIDHeader = "X-Request-ID"
	ginKey          = "logger"
)

type ctxKey struct{}

// New builds a JSON logger for production and a console logger otherwise,
// and installs it as the global zap logger.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(lvl)

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the request logger, or the global one.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return log
		}
	}
	return zap.L()
}

// Attach stores log on both the gin context and the request context so
// services called with c.Request.Context() see it.
func Attach(c *gin.Context, log *zap.Logger) {
	c.Set(ginKey, log)
	c.Request = c.Request.WithContext(WithContext(c.Request.Context(), log))
}

func FromGin(c *gin.Context) *zap.Logger {
	if log, ok := c.Get(ginKey); ok {
		if l, ok := log.(*zap.Logger); ok {
			return l
		}
	}
	return FromContext(c.Request.Context())
}
