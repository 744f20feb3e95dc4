package attribute

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"pim.GO/client"
	"pim.GO/core/cache"
	entity "pim.GO/model/entity"
	"pim.GO/notify"
)

const (
	keyDefinitions = "attribute_definitions"

	TagDefinitions = "attributes"
)

// DefinitionRegistry fetches and caches attribute definitions.
type DefinitionRegistry struct {
	client   *client.Client
	cache    *cache.Cache
	notifier notify.Notifier
}

func NewDefinitionRegistry(c *client.Client, cc *cache.Cache, n notify.Notifier) *DefinitionRegistry {
	return &DefinitionRegistry{client: c, cache: cc, notifier: n}
}

// FetchDefinitions returns all attribute definitions, deduplicated by code
// (first occurrence wins). On transport failure it returns an empty list and
// surfaces a user-visible notification; an empty list means "definitions
// unavailable", not "no attributes defined".
func (g *DefinitionRegistry) FetchDefinitions(ctx context.Context) []entity.AttributeDefinition {
	if v, ok := g.cache.Get(keyDefinitions); ok {
		if defs, ok := v.([]entity.AttributeDefinition); ok {
			return defs
		}
	}
	defs, err := g.client.FetchAttributes(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("attribute definitions unavailable")
		if g.notifier != nil {
			g.notifier.Error("Could not load attribute definitions")
		}
		return nil
	}
	deduped := dedupeByCode(defs)
	g.cache.Set(keyDefinitions, deduped, 0, []string{TagDefinitions})
	return deduped
}

func dedupeByCode(defs []entity.AttributeDefinition) []entity.AttributeDefinition {
	seen := make(map[string]bool, len(defs))
	out := make([]entity.AttributeDefinition, 0, len(defs))
	for _, d := range defs {
		if seen[d.Code] {
			continue
		}
		seen[d.Code] = true
		out = append(out, d)
	}
	return out
}

// DefinitionByCode looks up a definition by its code.
func (g *DefinitionRegistry) DefinitionByCode(ctx context.Context, code string) (entity.AttributeDefinition, bool) {
	for _, d := range g.FetchDefinitions(ctx) {
		if d.Code == code {
			return d, true
		}
	}
	return entity.AttributeDefinition{}, false
}

// DefinitionByID looks up a definition by its backend ID.
func (g *DefinitionRegistry) DefinitionByID(ctx context.Context, id uint) (entity.AttributeDefinition, bool) {
	for _, d := range g.FetchDefinitions(ctx) {
		if d.ID == id {
			return d, true
		}
	}
	return entity.AttributeDefinition{}, false
}

// Refresh drops the cached definition list and re-fetches it; used by the
// cache-warm cron job.
func (g *DefinitionRegistry) Refresh(ctx context.Context) {
	g.cache.DeleteByTag(TagDefinitions)
	g.FetchDefinitions(ctx)
}
