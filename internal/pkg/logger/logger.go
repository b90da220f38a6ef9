package logger

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"asset_aggregator/internal/config"
)

// New builds the application zap logger from config. Development mode uses
// the console encoder, production the JSON encoder.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return l, nil
}

// BridgeSlog routes the default slog logger through the given zap logger so
// code logging via log/slog ends up in the same stream.
func BridgeSlog(l *zap.Logger) {
	slog.SetDefault(slog.New(zapslog.NewHandler(l.Core())))
}
