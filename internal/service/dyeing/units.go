package dyeing

import (
	"math"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// maxExactKilograms bounds inputs whose integer part still fits a float64 mantissa.
const maxExactKilograms = 1 << 53

// ConvertToSubUnits splits a kilogram amount into whole kg, gm and mg parts.
// Nil, negative or non-finite input yields an all-nil quantity.
func ConvertToSubUnits(totalKg *float64) models.Quantity {
	if totalKg == nil {
		return models.Quantity{}
	}
	total := *totalKg
	if !isFinite(total) || total < 0 || total >= maxExactKilograms {
		return models.Quantity{}
	}

	kg := math.Floor(total)
	remainingGrams := (total - kg) * 1000
	gm := math.Floor(remainingGrams)
	mg := math.Round((remainingGrams - gm) * 1000)

	// carries are applied in order so that neither part can end at 1000
	if mg >= 1000 {
		gm++
		mg = 0
	}
	if gm >= 1000 {
		kg++
		gm = 0
	}

	k, g, m := int64(kg), int64(gm), int64(mg)
	return models.Quantity{KG: &k, GM: &g, MG: &m}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
