package entity

// ScopeDefault is the sentinel callers may pass instead of a concrete code to
// mean "substitute the organization default for this axis".
const ScopeDefault = "default"

// Locale maps a locale code (fr_FR) to its backend-assigned ID. The mapping is
// append-only on the backend side.
type Locale struct {
	ID       uint   `json:"id"`
	Code     string `json:"code"`
	Label    string `json:"label"`
	IsActive bool   `json:"is_active"`
}

// Channel maps a sales channel code (web) to its backend-assigned ID.
type Channel struct {
	ID       uint   `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Scope is one (locale, channel) slot of a scoped attribute. Empty strings mean
// unscoped on that axis.
type Scope struct {
	Locale  string
	Channel string
}

// IsDefault reports whether code is absent or the "default" sentinel.
func IsDefault(code string) bool {
	return code == "" || code == ScopeDefault
}

// Organization carries the org-wide fallback locale/channel.
type Organization struct {
	DefaultLocale  ScopedCode `json:"default_locale"`
	DefaultChannel ScopedCode `json:"default_channel"`
}

// ScopedCode wraps the {"code": ...} shape the organization endpoint returns.
type ScopedCode struct {
	Code string `json:"code"`
}
