package attribute

import (
	"context"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"pim.GO/client"
	"pim.GO/core/cache"
	entity "pim.GO/model/entity"
)

// Cache keys and tags used by the resolver. Per-code entries use composite
// keys so a redis snapshot can restore them field by field.
const (
	keyLocaleID       = "locale_id"
	keyChannelID      = "channel_id"
	keyLocalesLoaded  = "locales_loaded"
	keyChannelsLoaded = "channels_loaded"
	keyOrgLocale      = "org_default_locale"
	keyOrgChannel     = "org_default_channel"

	TagLocales  = "locales"
	TagChannels = "channels"
	TagOrg      = "organization"
)

// Resolver translates locale/channel string codes to backend IDs. The code→ID
// mapping is append-only upstream, so entries are fetched lazily, written once
// and never expire within a session. The cache is injected so each test (or
// application session) owns an isolated one.
type Resolver struct {
	client *client.Client
	cache  *cache.Cache
}

func NewResolver(c *client.Client, cc *cache.Cache) *Resolver {
	return &Resolver{client: c, cache: cc}
}

// ResolveLocaleID resolves a locale code to its backend ID. Empty or "default"
// codes yield a nil ID without a network call; unknown codes yield nil after
// the full locale list has been fetched once.
func (r *Resolver) ResolveLocaleID(ctx context.Context, code string) (*uint, error) {
	return r.resolveID(ctx, keyLocaleID, keyLocalesLoaded, TagLocales, code, r.loadLocales)
}

// ResolveChannelID resolves a channel code to its backend ID, same contract as
// ResolveLocaleID.
func (r *Resolver) ResolveChannelID(ctx context.Context, code string) (*uint, error) {
	return r.resolveID(ctx, keyChannelID, keyChannelsLoaded, TagChannels, code, r.loadChannels)
}

func (r *Resolver) resolveID(ctx context.Context, keyPrefix, loadedKey, tag, code string, load func(context.Context) error) (*uint, error) {
	if entity.IsDefault(code) {
		return nil, nil
	}
	if id, ok := r.cachedID(keyPrefix, code); ok {
		return &id, nil
	}
	if _, loaded := r.cache.Get(loadedKey); !loaded {
		if err := load(ctx); err != nil {
			return nil, fmt.Errorf("resolve %s %q: %w", tag, code, err)
		}
		r.cache.Set(loadedKey, true, 0, []string{tag})
		if id, ok := r.cachedID(keyPrefix, code); ok {
			return &id, nil
		}
	}
	zlog.Warn().Str("code", code).Str("kind", tag).Msg("unresolvable scope code, sending unscoped")
	return nil, nil
}

// cachedID tolerates float64 entries restored from a redis snapshot.
func (r *Resolver) cachedID(keyPrefix, code string) (uint, bool) {
	v, ok := r.cache.GetN(keyPrefix, code)
	if !ok {
		return 0, false
	}
	return asUint(v)
}

func asUint(v interface{}) (uint, bool) {
	switch t := v.(type) {
	case uint:
		return t, true
	case int:
		return uint(t), true
	case float64:
		return uint(t), true
	default:
		return 0, false
	}
}

func (r *Resolver) loadLocales(ctx context.Context) error {
	locales, err := r.client.FetchLocales(ctx)
	if err != nil {
		return err
	}
	for _, l := range locales {
		r.cache.SetN([]interface{}{keyLocaleID, l.Code}, l.ID, 0, []string{TagLocales})
	}
	return nil
}

func (r *Resolver) loadChannels(ctx context.Context) error {
	channels, err := r.client.FetchChannels(ctx)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		r.cache.SetN([]interface{}{keyChannelID, ch.Code}, ch.ID, 0, []string{TagChannels})
	}
	return nil
}

// OrganizationDefaults returns the org-wide fallback locale/channel codes,
// memoized after the first successful fetch. A failed fetch falls back to
// empty codes so callers always get a usable pair; the next call retries.
func (r *Resolver) OrganizationDefaults(ctx context.Context) entity.Scope {
	lv, lok := r.cache.Get(keyOrgLocale)
	cv, cok := r.cache.Get(keyOrgChannel)
	if lok && cok {
		return entity.Scope{Locale: asString(lv), Channel: asString(cv)}
	}
	org, err := r.client.FetchOrganization(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("organization defaults unavailable, using empty scope")
		return entity.Scope{}
	}
	r.cache.Set(keyOrgLocale, org.DefaultLocale.Code, 0, []string{TagOrg})
	r.cache.Set(keyOrgChannel, org.DefaultChannel.Code, 0, []string{TagOrg})
	return entity.Scope{Locale: org.DefaultLocale.Code, Channel: org.DefaultChannel.Code}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// Refresh re-fetches both code lists unconditionally. Writes are idempotent
// and the upstream mapping is append-only, so refreshing only adds entries;
// used by the cache-warm cron job.
func (r *Resolver) Refresh(ctx context.Context) error {
	if err := r.loadLocales(ctx); err != nil {
		return err
	}
	r.cache.Set(keyLocalesLoaded, true, 0, []string{TagLocales})
	if err := r.loadChannels(ctx); err != nil {
		return err
	}
	r.cache.Set(keyChannelsLoaded, true, 0, []string{TagChannels})
	return nil
}
