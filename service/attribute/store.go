package attribute

import (
	"context"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"pim.GO/client"
	entity "pim.GO/model/entity"
	"pim.GO/notify"
)

// CommitOutcome tags how a CreateValue call settled, so callers can tell a
// fresh create from a recovered conflict without inspecting errors.
type CommitOutcome int

const (
	OutcomeFailed CommitOutcome = iota
	OutcomeCreated
	OutcomeUpdated       // pre-check found the row and delegated to update
	OutcomeUnchanged     // pre-check found the row with an equal value, no write
	OutcomeFoundExisting // create lost the race, recovered the winner's row
)

func (o CommitOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeFoundExisting:
		return "found_existing"
	default:
		return "failed"
	}
}

// ValueStore performs attribute value reads and writes against the remote
// store, layering coercion, scope resolution and conflict recovery on top of
// the raw client. Reads degrade to empty results with a notification; writes
// propagate errors.
type ValueStore struct {
	client   *client.Client
	resolver *Resolver
	defs     *DefinitionRegistry
	notifier notify.Notifier
}

func NewValueStore(c *client.Client, r *Resolver, d *DefinitionRegistry, n notify.Notifier) *ValueStore {
	return &ValueStore{client: c, resolver: r, defs: d, notifier: n}
}

// resolveScope substitutes the organization default for any axis the caller
// omitted or passed as the "default" sentinel.
func (s *ValueStore) resolveScope(ctx context.Context, locale, channel string) entity.Scope {
	if entity.IsDefault(locale) || entity.IsDefault(channel) {
		d := s.resolver.OrganizationDefaults(ctx)
		if entity.IsDefault(locale) {
			locale = d.Locale
		}
		if entity.IsDefault(channel) {
			channel = d.Channel
		}
	}
	return entity.Scope{Locale: locale, Channel: channel}
}

// FetchValues returns a product's attribute values for the given scope,
// defaulting omitted axes to the organization defaults. Structured wire values
// are parsed back into their canonical shapes. A transport failure returns nil
// plus a user-visible notification.
func (s *ValueStore) FetchValues(ctx context.Context, productID uint, locale, channel string) []entity.AttributeValue {
	scope := s.resolveScope(ctx, locale, channel)
	values, err := s.client.FetchProductValues(ctx, productID, scope.Locale, scope.Channel)
	if err != nil {
		zlog.Warn().Err(err).Uint("product", productID).Msg("fetch attribute values failed")
		if s.notifier != nil {
			s.notifier.Error("Could not load attribute values")
		}
		return nil
	}
	return s.parseWireValues(ctx, values)
}

func (s *ValueStore) parseWireValues(ctx context.Context, values []entity.AttributeValue) []entity.AttributeValue {
	if s.defs == nil {
		return values
	}
	for i := range values {
		if def, ok := s.defs.DefinitionByID(ctx, values[i].AttributeID); ok {
			values[i].Value = DeserializeFromWire(values[i].Value, def.DataType)
		}
	}
	return values
}

func findDefinition(defs []entity.AttributeDefinition, attributeID uint) (entity.AttributeDefinition, bool) {
	for _, d := range defs {
		if d.ID == attributeID {
			return d, true
		}
	}
	return entity.AttributeDefinition{}, false
}

// findMatch locates the value row occupying the same (attribute, locale,
// channel) slot. Empty and "default" codes compare equal (both mean unscoped).
func findMatch(values []entity.AttributeValue, attributeID uint, locale, channel string) *entity.AttributeValue {
	for i := range values {
		v := &values[i]
		if v.AttributeID != attributeID {
			continue
		}
		if sameAxis(v.Locale, locale) && sameAxis(v.Channel, channel) {
			return v
		}
	}
	return nil
}

func sameAxis(a, b string) bool {
	if entity.IsDefault(a) && entity.IsDefault(b) {
		return true
	}
	return a == b
}

// CreateValue commits a value into the (product, attribute, locale, channel)
// slot. The uniqueness invariant is enforced server-side and a blind create
// can race with a concurrent writer, so the call runs a two-step protocol:
//
//  1. Pre-check: re-fetch current values; if the slot is already occupied,
//     return it unchanged (equal value) or delegate to UpdateValue.
//  2. Create, and on a uniqueness violation re-fetch and return the row the
//     concurrent writer created instead of propagating the error.
//
// The outcome tag tells callers which path was taken.
func (s *ValueStore) CreateValue(ctx context.Context, attributeID uint, raw interface{}, productID uint, locale, channel string, defs []entity.AttributeDefinition) (entity.AttributeValue, CommitOutcome, error) {
	value := raw
	dataType := entity.TypeText
	if def, ok := findDefinition(defs, attributeID); ok {
		dataType = def.DataType
		value = CoerceForStorage(raw, dataType)
	}

	localeID, err := s.resolver.ResolveLocaleID(ctx, locale)
	if err != nil {
		return entity.AttributeValue{}, OutcomeFailed, err
	}
	channelID, err := s.resolver.ResolveChannelID(ctx, channel)
	if err != nil {
		return entity.AttributeValue{}, OutcomeFailed, err
	}

	// Pre-check. A failed fetch here is not fatal: the create below still
	// runs and its conflict fallback covers the race.
	if existing, err := s.client.FetchProductValues(ctx, productID, "", ""); err == nil {
		if match := findMatch(existing, attributeID, locale, channel); match != nil {
			stored := DeserializeFromWire(match.Value, dataType)
			if valuesEqual(stored, value) {
				match.Value = stored
				return *match, OutcomeUnchanged, nil
			}
			updated, err := s.patchValue(ctx, match.ID, productID, value, dataType, localeID, channelID)
			if err != nil {
				return entity.AttributeValue{}, OutcomeFailed, err
			}
			return updated, OutcomeUpdated, nil
		}
	}

	created, err := s.client.CreateProductValue(ctx, productID, client.CreateValueRequest{
		Attribute: attributeID,
		Product:   productID,
		Value:     SerializeForWire(value, dataType),
		LocaleID:  localeID,
		ChannelID: channelID,
	})
	if err != nil {
		if client.IsUniqueViolation(err) {
			zlog.Info().
				Uint("product", productID).
				Uint("attribute", attributeID).
				Msg("create lost uniqueness race, recovering existing value")
			if again, ferr := s.client.FetchProductValues(ctx, productID, "", ""); ferr == nil {
				if match := findMatch(again, attributeID, locale, channel); match != nil {
					match.Value = DeserializeFromWire(match.Value, dataType)
					return *match, OutcomeFoundExisting, nil
				}
			}
		}
		return entity.AttributeValue{}, OutcomeFailed, fmt.Errorf("create value: %w", err)
	}
	created.Value = DeserializeFromWire(created.Value, dataType)
	return created, OutcomeCreated, nil
}

// UpdateValue mutates an existing value row in place. The owning attribute's
// data type is recovered by locating valueID among the product's current
// values. An update carrying a value identical to the stored one performs no
// network write.
func (s *ValueStore) UpdateValue(ctx context.Context, valueID uint, raw interface{}, productID uint, locale, channel string, defs []entity.AttributeDefinition) (entity.AttributeValue, error) {
	current, err := s.client.FetchProductValues(ctx, productID, "", "")
	if err != nil {
		return entity.AttributeValue{}, fmt.Errorf("locate value %d: %w", valueID, err)
	}
	var target *entity.AttributeValue
	for i := range current {
		if current[i].ID == valueID {
			target = &current[i]
			break
		}
	}
	if target == nil {
		return entity.AttributeValue{}, fmt.Errorf("value %d not found on product %d", valueID, productID)
	}

	dataType := entity.TypeText
	if def, ok := findDefinition(defs, target.AttributeID); ok {
		dataType = def.DataType
	} else if s.defs != nil {
		if def, ok := s.defs.DefinitionByID(ctx, target.AttributeID); ok {
			dataType = def.DataType
		}
	}

	value := CoerceForStorage(raw, dataType)
	stored := DeserializeFromWire(target.Value, dataType)
	if valuesEqual(stored, value) && sameAxis(target.Locale, locale) && sameAxis(target.Channel, channel) {
		target.Value = stored
		return *target, nil
	}

	localeID, err := s.resolver.ResolveLocaleID(ctx, locale)
	if err != nil {
		return entity.AttributeValue{}, err
	}
	channelID, err := s.resolver.ResolveChannelID(ctx, channel)
	if err != nil {
		return entity.AttributeValue{}, err
	}
	return s.patchValue(ctx, valueID, productID, value, dataType, localeID, channelID)
}

func (s *ValueStore) patchValue(ctx context.Context, valueID, productID uint, value interface{}, dataType entity.DataType, localeID, channelID *uint) (entity.AttributeValue, error) {
	updated, err := s.client.UpdateProductValue(ctx, productID, valueID, client.UpdateValueRequest{
		Value:     SerializeForWire(value, dataType),
		LocaleID:  localeID,
		ChannelID: channelID,
	})
	if err != nil {
		return entity.AttributeValue{}, fmt.Errorf("update value %d: %w", valueID, err)
	}
	updated.Value = DeserializeFromWire(updated.Value, dataType)
	return updated, nil
}

// DeleteValue removes a value row. Errors propagate to the caller.
func (s *ValueStore) DeleteValue(ctx context.Context, valueID, productID uint) error {
	if err := s.client.DeleteProductValue(ctx, productID, valueID); err != nil {
		return fmt.Errorf("delete value %d: %w", valueID, err)
	}
	return nil
}
