package attribute

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"pim.GO/client"
	"pim.GO/core/cache"
	entity "pim.GO/model/entity"
)

// testBackend is an in-memory stand-in for the remote attribute store. It
// keeps wire-form values, enforces the (product, attribute, locale, channel)
// uniqueness rule with a 400 non-field error, and records every request so
// tests can assert on traffic.
type testBackend struct {
	t  *testing.T
	mu sync.Mutex

	defs     []entity.AttributeDefinition
	locales  []entity.Locale
	channels []entity.Channel
	org      entity.Organization
	values   []entity.AttributeValue
	nextID   uint

	requests []string
	orgFails bool
	// conflictWinner simulates losing a create race: the next POST inserts
	// this row (the concurrent winner's) and answers 400 unique.
	conflictWinner *entity.AttributeValue

	srv *httptest.Server
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{
		t:      t,
		nextID: 100,
		locales: []entity.Locale{
			{ID: 1, Code: "en_US", Label: "English (US)", IsActive: true},
			{ID: 2, Code: "fr_FR", Label: "French", IsActive: true},
			{ID: 3, Code: "de_DE", Label: "German", IsActive: true},
		},
		channels: []entity.Channel{
			{ID: 10, Code: "web", Name: "Web", IsActive: true},
			{ID: 11, Code: "print", Name: "Print", IsActive: true},
		},
		org: entity.Organization{
			DefaultLocale:  entity.ScopedCode{Code: "en_US"},
			DefaultChannel: entity.ScopedCode{Code: "web"},
		},
		defs: []entity.AttributeDefinition{
			{ID: 1, Code: "headline", Label: "Headline", DataType: entity.TypeText, IsLocalisable: true, IsScopable: true},
			{ID: 2, Code: "weight_g", Label: "Weight", DataType: entity.TypeNumber},
			{ID: 3, Code: "on_sale", Label: "On sale", DataType: entity.TypeBoolean, IsScopable: true},
			{ID: 4, Code: "msrp", Label: "MSRP", DataType: entity.TypePrice, IsScopable: true},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /attributes", b.handleAttributes)
	mux.HandleFunc("GET /locales", b.handleLocales)
	mux.HandleFunc("GET /channels", b.handleChannels)
	mux.HandleFunc("GET /organization", b.handleOrganization)
	mux.HandleFunc("GET /products/{id}/attributes", b.handleFetchValues)
	mux.HandleFunc("POST /products/{id}/attributes", b.handleCreateValue)
	mux.HandleFunc("PATCH /products/{id}/attributes/{vid}", b.handleUpdateValue)
	mux.HandleFunc("DELETE /products/{id}/attributes/{vid}", b.handleDeleteValue)

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *testBackend) client() *client.Client {
	return client.New(b.srv.URL, "test-token")
}

// stack wires a fresh resolver/registry/store against this backend with an
// isolated cache.
func (b *testBackend) stack() (*ValueStore, *DefinitionRegistry, *Resolver, *cache.Cache) {
	cc := cache.NewCache()
	c := b.client()
	resolver := NewResolver(c, cc)
	registry := NewDefinitionRegistry(c, cc, nil)
	store := NewValueStore(c, resolver, registry, nil)
	return store, registry, resolver, cc
}

func (b *testBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		req += "?" + r.URL.RawQuery
	}
	b.requests = append(b.requests, req)
}

func (b *testBackend) countRequests(method, pathPrefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, req := range b.requests {
		if strings.HasPrefix(req, method+" "+pathPrefix) {
			n++
		}
	}
	return n
}

func (b *testBackend) storedValues() []entity.AttributeValue {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.AttributeValue, len(b.values))
	copy(out, b.values)
	return out
}

func (b *testBackend) seedValue(v entity.AttributeValue) entity.AttributeValue {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	v.ID = b.nextID
	b.values = append(b.values, v)
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *testBackend) handleAttributes(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	writeJSON(w, http.StatusOK, b.defs)
}

func (b *testBackend) handleLocales(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	writeJSON(w, http.StatusOK, b.locales)
}

func (b *testBackend) handleChannels(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	writeJSON(w, http.StatusOK, b.channels)
}

func (b *testBackend) handleOrganization(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	if b.orgFails {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		return
	}
	writeJSON(w, http.StatusOK, b.org)
}

func (b *testBackend) handleFetchValues(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	productID := pathUint(r, "id")
	locale := r.URL.Query().Get("locale")
	channel := r.URL.Query().Get("channel")

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []entity.AttributeValue{}
	for _, v := range b.values {
		if v.ProductID != productID {
			continue
		}
		if locale != "" && v.Locale != "" && v.Locale != locale {
			continue
		}
		if channel != "" && v.Channel != "" && v.Channel != channel {
			continue
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *testBackend) localeCode(id *uint) string {
	if id == nil {
		return ""
	}
	for _, l := range b.locales {
		if l.ID == *id {
			return l.Code
		}
	}
	return ""
}

func (b *testBackend) channelCode(id *uint) string {
	if id == nil {
		return ""
	}
	for _, c := range b.channels {
		if c.ID == *id {
			return c.Code
		}
	}
	return ""
}

func (b *testBackend) handleCreateValue(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	productID := pathUint(r, "id")
	var body client.CreateValueRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	locale := b.localeCode(body.LocaleID)
	channel := b.channelCode(body.ChannelID)

	if b.conflictWinner != nil {
		winner := *b.conflictWinner
		b.conflictWinner = nil
		b.nextID++
		winner.ID = b.nextID
		b.values = append(b.values, winner)
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"The fields product, attribute, locale, channel must make a unique set."},
		})
		return
	}

	for _, v := range b.values {
		if v.ProductID == productID && v.AttributeID == body.Attribute && v.Locale == locale && v.Channel == channel {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"non_field_errors": {"The fields product, attribute, locale, channel must make a unique set."},
			})
			return
		}
	}

	b.nextID++
	created := entity.AttributeValue{
		ID:          b.nextID,
		AttributeID: body.Attribute,
		ProductID:   productID,
		Value:       body.Value,
		Locale:      locale,
		Channel:     channel,
	}
	b.values = append(b.values, created)
	writeJSON(w, http.StatusCreated, created)
}

func (b *testBackend) handleUpdateValue(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	valueID := pathUint(r, "vid")
	var body client.UpdateValueRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.values {
		if b.values[i].ID != valueID {
			continue
		}
		b.values[i].Value = body.Value
		b.values[i].Locale = b.localeCode(body.LocaleID)
		b.values[i].Channel = b.channelCode(body.ChannelID)
		writeJSON(w, http.StatusOK, b.values[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "value not found"})
}

func (b *testBackend) handleDeleteValue(w http.ResponseWriter, r *http.Request) {
	b.record(r)
	valueID := pathUint(r, "vid")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.values {
		if b.values[i].ID == valueID {
			b.values = append(b.values[:i], b.values[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "value not found"})
}

func pathUint(r *http.Request, key string) uint {
	n, _ := strconv.ParseUint(r.PathValue(key), 10, 64)
	return uint(n)
}
