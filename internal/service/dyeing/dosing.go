package dyeing

import (
	"math"
	"strconv"
	"strings"
)

// QuantityFromDosing returns the kilograms needed for a g/l dosing rate over the given liquor volume.
func QuantityFromDosing(dosing, totalWater *float64) *float64 {
	if !present(dosing) || !present(totalWater) {
		return nil
	}
	return finiteOrNil((*totalWater * *dosing) / 1000)
}

// QuantityFromShade returns the kilograms needed for a shade percentage of the fabric weight.
func QuantityFromShade(shade, fabricWeight *float64) *float64 {
	if !present(shade) || !present(fabricWeight) {
		return nil
	}
	return finiteOrNil((*shade * *fabricWeight) / 100)
}

// TotalWater derives the liquor volume in litres from fabric weight and liquor ratio.
// Negative inputs count as zero.
func TotalWater(fabricWeight, liquorRatio *float64) *float64 {
	if !present(fabricWeight) || !present(liquorRatio) {
		return nil
	}
	return finiteOrNil(math.Max(0, *fabricWeight) * math.Max(0, *liquorRatio))
}

// ParseNumber reads a numeric field as typed by the user.
// Empty input clears the value; anything unparsable keeps prior.
func ParseNumber(raw string, prior *float64) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !isFinite(v) {
		return cloneFloat(prior)
	}
	return &v
}

// ParseUnitPrice reads a price per kg. Anything that is not a non-negative number clears it.
func ParseUnitPrice(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !isFinite(v) || v < 0 {
		return nil
	}
	return &v
}

func present(v *float64) bool {
	return v != nil && isFinite(*v)
}

func finiteOrNil(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
