package entity

// DataType is the declared type of an attribute. It decides how raw input is
// coerced and how the value travels on the wire.
type DataType string

const (
	TypeText        DataType = "text"
	TypeNumber      DataType = "number"
	TypeBoolean     DataType = "boolean"
	TypeDate        DataType = "date"
	TypeSelect      DataType = "select"
	TypeMultiselect DataType = "multiselect"
	TypePrice       DataType = "price"
	TypeMeasurement DataType = "measurement"
	TypeMedia       DataType = "media"
	TypeRichText    DataType = "rich_text"
	TypeURL         DataType = "url"
	TypeEmail       DataType = "email"
	TypePhone       DataType = "phone"
)

// IsStructured reports whether values of this type are JSON-encoded strings on
// the wire (price, measurement, media, rich_text).
func (t DataType) IsStructured() bool {
	switch t {
	case TypePrice, TypeMeasurement, TypeMedia, TypeRichText:
		return true
	}
	return false
}

// AttributeDefinition describes a custom attribute. Code and DataType are
// immutable after creation (enforced by the admin surface, not here).
type AttributeDefinition struct {
	ID            uint     `json:"id"`
	Code          string   `json:"code"`
	Label         string   `json:"label"`
	DataType      DataType `json:"data_type"`
	IsLocalisable bool     `json:"is_localisable"`
	IsScopable    bool     `json:"is_scopable"`
}

// AttributeValue is one value slot for a (product, attribute, locale, channel)
// tuple. At most one row may exist per tuple; empty Locale/Channel means the
// value applies to all locales/channels.
type AttributeValue struct {
	ID          uint        `json:"id"`
	AttributeID uint        `json:"attribute"`
	ProductID   uint        `json:"product"`
	Value       interface{} `json:"value"`
	Locale      string      `json:"locale,omitempty"`
	Channel     string      `json:"channel,omitempty"`
}

// Price is the canonical in-memory value for data_type "price".
type Price struct {
	Amount   float64 `json:"amount" mapstructure:"amount"`
	Currency string  `json:"currency" mapstructure:"currency"`
}

// Measurement is the canonical in-memory value for data_type "measurement".
type Measurement struct {
	Amount float64 `json:"amount" mapstructure:"amount"`
	Unit   string  `json:"unit" mapstructure:"unit"`
}

// MediaRef is the canonical in-memory value for data_type "media". Only the
// asset reference passes through this engine; asset bytes live elsewhere.
type MediaRef struct {
	AssetID uint `json:"asset_id" mapstructure:"asset_id"`
}
