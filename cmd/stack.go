package cmd

import (
	zlog "github.com/rs/zerolog/log"

	"pim.GO/client"
	"pim.GO/config"
	"pim.GO/core/cache"
	"pim.GO/cron/jobs"
	"pim.GO/notify"
	"pim.GO/service/attribute"
)

// buildStack wires the attribute services for CLI commands. When redis is
// configured the session cache starts from the last warm-job snapshot, saving
// the initial locale/channel list fetches.
func buildStack() (*attribute.ValueStore, *attribute.DefinitionRegistry, *attribute.Resolver) {
	cc := cache.GetInstance()
	if config.RedisClient != nil {
		if err := cc.RestoreFromRedis(config.RedisCtx(), config.RedisClient, jobs.RedisCacheKey); err != nil {
			zlog.Debug().Err(err).Msg("no resolver cache snapshot restored")
		}
	}
	c := client.New(config.AppConfig.PIMBaseURL, config.AppConfig.PIMToken)
	resolver := attribute.NewResolver(c, cc)
	registry := attribute.NewDefinitionRegistry(c, cc, notify.LogNotifier{})
	store := attribute.NewValueStore(c, resolver, registry, notify.LogNotifier{})
	return store, registry, resolver
}
