package attribute

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	entity "pim.GO/model/entity"
)

// CoerceForStorage normalizes raw input into the canonical in-memory value for
// the declared data type. Unparseable numbers and empty strings resolve to the
// type's zero value rather than failing; coercion never returns an error.
func CoerceForStorage(raw interface{}, dataType entity.DataType) interface{} {
	switch dataType {
	case entity.TypeNumber:
		return coerceNumber(raw)
	case entity.TypeBoolean:
		return coerceBool(raw)
	case entity.TypeDate:
		return coerceDate(raw)
	case entity.TypeMultiselect:
		return coerceMultiselect(raw)
	case entity.TypePrice:
		var p entity.Price
		return coerceStructured(raw, &p)
	case entity.TypeMeasurement:
		var m entity.Measurement
		return coerceStructured(raw, &m)
	case entity.TypeMedia:
		var m entity.MediaRef
		return coerceStructured(raw, &m)
	default:
		// text, select, url, email, phone, rich_text
		return coerceString(raw)
	}
}

func coerceNumber(raw interface{}) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return coerceNumber(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceBool(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return false
		}
		if b, err := strconv.ParseBool(strings.ToLower(s)); err == nil {
			return b
		}
		// any other non-empty string is truthy
		return true
	default:
		return raw != nil
	}
}

func coerceDate(raw interface{}) interface{} {
	switch v := raw.(type) {
	case time.Time:
		return v.Format("2006-01-02")
	case string:
		s := strings.TrimSpace(v)
		if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
			return t.Format("2006-01-02")
		}
		return s
	default:
		return coerceString(raw)
	}
}

func coerceString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(raw)
	}
}

func coerceMultiselect(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, coerceString(item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	default:
		return []string{coerceString(raw)}
	}
}

// coerceStructured maps price/measurement/media input onto its canonical
// struct. Accepts the struct itself, a loosely-typed map (decoded via
// mapstructure with weak typing, so JSON float64 IDs land in uint fields), or
// a JSON string. Undecodable input is returned unchanged.
func coerceStructured(raw interface{}, out interface{}) interface{} {
	switch v := raw.(type) {
	case nil:
		return raw
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return raw
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return raw
		}
		return coerceStructured(parsed, out)
	case map[string]interface{}:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           out,
		})
		if err != nil {
			return raw
		}
		if err := dec.Decode(v); err != nil {
			return raw
		}
		return deref(out)
	default:
		return raw
	}
}

func deref(v interface{}) interface{} {
	switch t := v.(type) {
	case *entity.Price:
		return *t
	case *entity.Measurement:
		return *t
	case *entity.MediaRef:
		return *t
	default:
		return v
	}
}

// SerializeForWire converts a canonical value to its transport form. Price,
// measurement, media and rich_text travel as JSON-encoded strings; everything
// else passes through as-is.
func SerializeForWire(value interface{}, dataType entity.DataType) interface{} {
	if !dataType.IsStructured() {
		return value
	}
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	return string(data)
}

// DeserializeFromWire parses the transport form back into the canonical value.
// Malformed JSON for structured types is returned as the raw string, never an
// error.
func DeserializeFromWire(raw interface{}, dataType entity.DataType) interface{} {
	if !dataType.IsStructured() {
		return raw
	}
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	switch dataType {
	case entity.TypePrice:
		var p entity.Price
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return raw
		}
		return p
	case entity.TypeMeasurement:
		var m entity.Measurement
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return raw
		}
		return m
	case entity.TypeMedia:
		var m entity.MediaRef
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return raw
		}
		return m
	case entity.TypeRichText:
		var text string
		if err := json.Unmarshal([]byte(s), &text); err != nil {
			return raw
		}
		return text
	}
	return raw
}

// ZeroValueFor returns the seed value for a brand-new editable row.
func ZeroValueFor(dataType entity.DataType) interface{} {
	switch dataType {
	case entity.TypeNumber:
		return float64(0)
	case entity.TypeBoolean:
		return false
	case entity.TypeMultiselect:
		return []string(nil)
	case entity.TypePrice:
		return entity.Price{}
	case entity.TypeMeasurement:
		return entity.Measurement{}
	case entity.TypeMedia:
		return entity.MediaRef{}
	default:
		return ""
	}
}

// isEmptyValue reports whether value is the "nothing entered" form. Zero
// numbers and false booleans are real values and do not count as empty.
func isEmptyValue(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	}
	return false
}

// valuesEqual compares two canonical values structurally. Both sides are
// marshaled to JSON so float64/int and struct/map representations of the same
// value compare equal.
func valuesEqual(a, b interface{}) bool {
	da, errA := json.Marshal(a)
	db, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(da) == string(db)
}
