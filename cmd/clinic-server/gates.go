package main

import (
	"github.com/rs/zerolog"

	"github.com/dermai/clinic/internal/config"
	"github.com/dermai/clinic/internal/platform/capability"
)

type gates struct {
	registry *capability.Registry
	ai       *capability.Gate
	store    *capability.Gate
	cache    *capability.Gate
}

// buildGates decides every capability once. A malformed MOCK_MODE turns
// test mode on.
func buildGates(cfg *config.Config, logger zerolog.Logger) gates {
	testMode, malformed := capability.ResolveTestMode(cfg.MockMode)
	if malformed {
		logger.Warn().Str("MOCK_MODE", cfg.MockMode).Msg("unparseable MOCK_MODE, running in mock mode")
	}

	r := capability.NewRegistry()
	g := gates{registry: r}
	g.ai = r.Add(capability.New("ai:"+cfg.AIProvider, cfg.AICredential(), testMode))

	switch backend := cfg.ResolvedStoreBackend(); backend {
	case config.BackendMemory:
		g.store = r.Add(capability.Mock("store:" + backend))
	default:
		g.store = r.Add(capability.New("store:"+backend, cfg.StoreCredential(), testMode))
	}

	g.cache = r.Add(capability.New("cache:redis", cfg.RedisURL, testMode))
	return g
}
