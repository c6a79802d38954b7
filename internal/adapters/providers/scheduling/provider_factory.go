package scheduling

import (
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/infrastructure/clients/simplybook"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
	"github.com/zatekoja/coachlanding/pkg/config"
)

// NewSchedulingProvider returns the SimplyBook adapter when credentials are configured and
// the in-memory mock otherwise.
func NewSchedulingProvider(cfg *config.SimplyBookConfig, cache providers.CacheProvider, metrics *observability.Metrics) providers.SchedulingProvider {
	if !cfg.HasCredentials() {
		// No real provider configured; use mock provider for dev.
		log.Warn().Msg("SimplyBook credentials not configured, using mock scheduling provider")
		return NewMockAdapter()
	}

	client := simplybook.NewClient(cfg, metrics)
	return NewSimplyBookAdapter(client, cfg, cache)
}
