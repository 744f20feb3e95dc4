package jobs

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"pim.GO/client"
	"pim.GO/core/cache"
	"pim.GO/notify"
	"pim.GO/service/attribute"
)

// RedisCacheKey is the redis hash the warm job snapshots resolver caches into.
const RedisCacheKey = "pim:resolver_cache"

// WarmResolverJob refreshes the locale/channel ID maps and the attribute
// definition list. Both upstream mappings are append-only, so re-fetching only
// adds entries and never invalidates a live session's view. When redis is
// configured the refreshed caches are snapshotted so later CLI invocations
// start warm.
//
// Reads env directly rather than config to keep this package importable from
// config.CronJobs.
func WarmResolverJob(args ...string) {
	cc := cache.GetInstance()
	c := client.New(os.Getenv("PIM_BASE_URL"), os.Getenv("PIM_API_TOKEN"))
	ctx := context.Background()

	resolver := attribute.NewResolver(c, cc)
	if err := resolver.Refresh(ctx); err != nil {
		zlog.Warn().Err(err).Msg("warm job: scope code refresh failed")
		return
	}
	resolver.OrganizationDefaults(ctx)

	registry := attribute.NewDefinitionRegistry(c, cc, notify.LogNotifier{})
	registry.Refresh(ctx)

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS")})
		if err := cc.DumpToRedis(ctx, rdb, RedisCacheKey); err != nil {
			zlog.Warn().Err(err).Msg("warm job: redis snapshot failed")
			return
		}
	}
	zlog.Info().Msg("resolver caches warmed")
}
