package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplanner/internal/config"
)

var Module = fx.Provide(config.Load, provideLogger)

// provideLogger builds the process logger and installs it as the zap global
// so packages without an injected logger share it.
func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	undo := zap.ReplaceGlobals(logger)
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
		undo()
	}))
	return logger, nil
}
