package dyeing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, *got, want)
	}
}

func TestQuantityFromDosing(t *testing.T) {
	nearlyEqual(t, "20 g/l over 500 l", QuantityFromDosing(ptr(20), ptr(500)), 10)

	if got := QuantityFromDosing(ptr(20), nil); got != nil {
		t.Fatalf("missing water: got %v, want nil", *got)
	}
	if got := QuantityFromDosing(nil, ptr(500)); got != nil {
		t.Fatalf("missing dosing: got %v, want nil", *got)
	}
	if got := QuantityFromDosing(ptr(math.NaN()), ptr(500)); got != nil {
		t.Fatalf("NaN dosing: got %v, want nil", *got)
	}
}

func TestQuantityFromShade(t *testing.T) {
	nearlyEqual(t, "5% of 200 kg", QuantityFromShade(ptr(5), ptr(200)), 10)

	if got := QuantityFromShade(nil, ptr(200)); got != nil {
		t.Fatalf("missing shade: got %v, want nil", *got)
	}
	if got := QuantityFromShade(ptr(5), nil); got != nil {
		t.Fatalf("missing fabric weight: got %v, want nil", *got)
	}
}

func TestTotalWater(t *testing.T) {
	nearlyEqual(t, "100 kg at 1:8", TotalWater(ptr(100), ptr(8)), 800)
	nearlyEqual(t, "negative weight clamps", TotalWater(ptr(-5), ptr(10)), 0)
	nearlyEqual(t, "negative ratio clamps", TotalWater(ptr(5), ptr(-10)), 0)

	if got := TotalWater(nil, ptr(10)); got != nil {
		t.Fatalf("missing weight: got %v, want nil", *got)
	}
	if got := TotalWater(ptr(math.MaxFloat64), ptr(10)); got != nil {
		t.Fatalf("overflow: got %v, want nil", *got)
	}
}

func TestParseNumber(t *testing.T) {
	prior := ptr(7)

	nearlyEqual(t, "numeric", ParseNumber(" 12.5 ", prior), 12.5)
	nearlyEqual(t, "garbage keeps prior", ParseNumber("12abc", prior), 7)

	if got := ParseNumber("", prior); got != nil {
		t.Fatalf("empty input: got %v, want nil", *got)
	}
	if got := ParseNumber("abc", nil); got != nil {
		t.Fatalf("garbage without prior: got %v, want nil", *got)
	}
	if got := ParseNumber("abc", prior); got == prior {
		t.Fatalf("kept prior must be a copy, not the same pointer")
	}
}

func TestParseUnitPrice(t *testing.T) {
	nearlyEqual(t, "price", ParseUnitPrice("3.25"), 3.25)
	for _, raw := range []string{"", "abc", "-1", "Inf"} {
		if got := ParseUnitPrice(raw); got != nil {
			t.Fatalf("ParseUnitPrice(%q) = %v, want nil", raw, *got)
		}
	}
}
