package conv

import (
	"reflect"
	"testing"
)

func TestConfigGetters(t *testing.T) {
	cfg := map[string]any{
		"n":         10,
		"json_n":    float64(7),
		"min_score": 0,
		"ratio":     0.25,
		"name":      "personalized",
		"ids":       []any{"a", 42, true},
	}

	if got := ConfigGetInt64(cfg, "n", 1); got != 10 {
		t.Errorf("ConfigGetInt64(n) = %d", got)
	}
	if got := ConfigGetInt64(cfg, "json_n", 1); got != 7 {
		t.Errorf("ConfigGetInt64(json_n) = %d", got)
	}
	if got := ConfigGetInt64(cfg, "missing", 3); got != 3 {
		t.Errorf("ConfigGetInt64(missing) = %d", got)
	}
	if got := ConfigGetFloat64(cfg, "min_score", -1); got != 0 {
		t.Errorf("ConfigGetFloat64(min_score) = %v", got)
	}
	if got := ConfigGetFloat64(cfg, "ratio", 0); got != 0.25 {
		t.Errorf("ConfigGetFloat64(ratio) = %v", got)
	}
	if got := ConfigGet(cfg, "name", ""); got != "personalized" {
		t.Errorf("ConfigGet(name) = %q", got)
	}
	if got := ConfigGet(cfg, "n", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet type mismatch = %q", got)
	}
	if got := ConfigGet[string](nil, "name", "nil-map"); got != "nil-map" {
		t.Errorf("ConfigGet(nil) = %q", got)
	}

	want := []string{"a", "42"}
	if got := SliceAnyToString(cfg["ids"]); !reflect.DeepEqual(got, want) {
		t.Errorf("SliceAnyToString() = %v, want %v", got, want)
	}
	if got := SliceAnyToString(nil); got != nil {
		t.Errorf("SliceAnyToString(nil) = %v", got)
	}
}
