// Package units converts between dosage units and derives elemental dosages.
// Mass units (mcg, mg, g) convert freely via powers of 1000. IU is a
// biological activity measure with a compound-specific mass equivalence, so
// it never converts to or from anything else; the same holds for ml.
package units

import "biostack/models"

// factors expresses each mass unit in milligrams.
var factors = map[string]float64{
	models.UnitMCG: 0.001,
	models.UnitMG:  1,
	models.UnitG:   1000,
}

// Convert converts an amount between dosage units. The second return value
// is false when the conversion is impossible (IU or ml paired with any other
// unit, or an unknown unit).
func Convert(amount float64, from, to string) (float64, bool) {
	if from == to && models.ValidUnit(from) {
		return amount, true
	}

	fromFactor, fromOK := factors[from]
	toFactor, toOK := factors[to]
	if !fromOK || !toOK {
		return 0, false
	}

	return amount * fromFactor / toFactor, true
}

// ElementalDosage reduces a compound dosage to the dosage of its active
// element. A nil or non-positive weight percent means the pure form.
func ElementalDosage(dosage float64, elementalWeightPercent *float64) float64 {
	if elementalWeightPercent == nil || *elementalWeightPercent <= 0 {
		return dosage
	}
	return dosage * (*elementalWeightPercent / 100)
}
