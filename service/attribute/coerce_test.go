package attribute

import (
	"reflect"
	"testing"

	entity "pim.GO/model/entity"
)

func TestCoerce_EmptyInputDefaults(t *testing.T) {
	if got := CoerceForStorage("", entity.TypeNumber); got != float64(0) {
		t.Errorf("number('') = %v, want 0", got)
	}
	if got := CoerceForStorage("", entity.TypeBoolean); got != false {
		t.Errorf("boolean('') = %v, want false", got)
	}
}

func TestCoerce_Number(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
	}{
		{"19.99", 19.99},
		{"  42 ", 42},
		{"not a number", 0},
		{nil, 0},
		{3, 3},
		{true, 1},
	}
	for _, c := range cases {
		if got := CoerceForStorage(c.in, entity.TypeNumber); got != c.want {
			t.Errorf("number(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCoerce_Boolean(t *testing.T) {
	cases := []struct {
		in   interface{}
		want bool
	}{
		{"true", true},
		{"false", false},
		{"0", false},
		{"1", true},
		{"yes please", true},
		{0, false},
		{2, true},
		{nil, false},
	}
	for _, c := range cases {
		if got := CoerceForStorage(c.in, entity.TypeBoolean); got != c.want {
			t.Errorf("boolean(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCoerce_Date(t *testing.T) {
	if got := CoerceForStorage("2026-06-01 10:00:00", entity.TypeDate); got != "2026-06-01" {
		t.Errorf("date(datetime) = %v, want 2026-06-01", got)
	}
	if got := CoerceForStorage("2026-01-15", entity.TypeDate); got != "2026-01-15" {
		t.Errorf("date(date) = %v, want 2026-01-15", got)
	}
}

func TestCoerce_StructuredFromMap(t *testing.T) {
	// JSON-decoded input arrives as map[string]interface{} with float64 numbers
	raw := map[string]interface{}{"amount": 19.99, "currency": "EUR"}
	got := CoerceForStorage(raw, entity.TypePrice)
	want := entity.Price{Amount: 19.99, Currency: "EUR"}
	if got != want {
		t.Errorf("price(map) = %#v, want %#v", got, want)
	}

	media := CoerceForStorage(map[string]interface{}{"asset_id": float64(7)}, entity.TypeMedia)
	if media != (entity.MediaRef{AssetID: 7}) {
		t.Errorf("media(map) = %#v, want asset 7", media)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	cases := []struct {
		dt entity.DataType
		v  interface{}
	}{
		{entity.TypeText, "hello"},
		{entity.TypeNumber, 19.99},
		{entity.TypeBoolean, true},
		{entity.TypeDate, "2026-01-15"},
		{entity.TypeSelect, "red"},
		{entity.TypeURL, "https://example.com"},
		{entity.TypeEmail, "a@b.c"},
		{entity.TypePhone, "+3312345678"},
		{entity.TypeRichText, "<p>hi</p>"},
		{entity.TypePrice, entity.Price{Amount: 9.5, Currency: "USD"}},
		{entity.TypeMeasurement, entity.Measurement{Amount: 1.8, Unit: "m"}},
		{entity.TypeMedia, entity.MediaRef{AssetID: 42}},
	}
	for _, c := range cases {
		wire := SerializeForWire(c.v, c.dt)
		back := DeserializeFromWire(wire, c.dt)
		if !reflect.DeepEqual(back, c.v) {
			t.Errorf("%s: round trip = %#v, want %#v", c.dt, back, c.v)
		}
	}
}

func TestSerialize_StructuredIsJSONString(t *testing.T) {
	wire := SerializeForWire(entity.Price{Amount: 9.5, Currency: "USD"}, entity.TypePrice)
	s, ok := wire.(string)
	if !ok {
		t.Fatalf("price wire form = %T, want string", wire)
	}
	if s != `{"amount":9.5,"currency":"USD"}` {
		t.Errorf("price wire form = %s", s)
	}
}

func TestDeserialize_MalformedJSON(t *testing.T) {
	got := DeserializeFromWire("{bad json", entity.TypePrice)
	if got != "{bad json" {
		t.Errorf("malformed price = %v, want raw string back", got)
	}
	got = DeserializeFromWire("{oops", entity.TypeMeasurement)
	if got != "{oops" {
		t.Errorf("malformed measurement = %v, want raw string back", got)
	}
}

func TestValuesEqual_NumericRepresentations(t *testing.T) {
	if !valuesEqual(float64(2), 2) {
		t.Error("float64(2) and int 2 should compare equal")
	}
	if !valuesEqual(entity.Price{Amount: 1, Currency: "EUR"}, map[string]interface{}{"amount": float64(1), "currency": "EUR"}) {
		t.Error("struct and map price should compare equal")
	}
	if valuesEqual("a", "b") {
		t.Error("distinct strings should not compare equal")
	}
}

func TestZeroValueFor(t *testing.T) {
	if ZeroValueFor(entity.TypeNumber) != float64(0) {
		t.Error("number zero value should be 0")
	}
	if ZeroValueFor(entity.TypeBoolean) != false {
		t.Error("boolean zero value should be false")
	}
	if ZeroValueFor(entity.TypeText) != "" {
		t.Error("text zero value should be empty string")
	}
}
