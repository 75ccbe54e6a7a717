package auth_fx

import (
	"go.uber.org/fx"
	"tripplanner/internal/config"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(provideTokenVerifier)

func provideTokenVerifier(cfg config.Config) *utils.TokenVerifier {
	return utils.NewTokenVerifier(cfg.JWTSecret, cfg.TokenTTL)
}
