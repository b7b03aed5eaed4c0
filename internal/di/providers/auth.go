package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinevault/cinevault-server/internal/auth"
	"github.com/cinevault/cinevault-server/internal/config"
)

// ProvideTokenService provides the bearer token service for the configured
// format. The PASETO key is loaded from, or generated into, the data path.
func ProvideTokenService(i do.Injector) (auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	tokenCfg := auth.TokenConfig{
		Format:    cfg.Auth.TokenFormat,
		Issuer:    cfg.Auth.Issuer,
		Duration:  cfg.Auth.TokenDuration,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
	}

	if cfg.Auth.TokenFormat != auth.FormatJWT {
		key, err := auth.LoadOrGenerateKey(cfg.App.DataPath)
		if err != nil {
			return nil, err
		}
		tokenCfg.PasetoKey = key
	}

	tokens, err := auth.NewTokenService(tokenCfg)
	if err != nil {
		return nil, err
	}

	log.Info("Token service initialized",
		"format", cfg.Auth.TokenFormat,
		"token_duration", cfg.Auth.TokenDuration,
	)
	return tokens, nil
}
