// Package kinetics models the concentration curve of a dosed compound as a
// percent of peak concentration over time. Absorption is either a linear ramp
// (first-order) or a saturable Michaelis-Menten uptake solved in closed form
// with the Lambert W function; elimination is always exponential decay.
package kinetics

import (
	"math"

	"biostack/models"
)

// Conservative fallbacks for profiles with degenerate pharmacokinetics.
const (
	DefaultPeakMinutes     = 60
	DefaultHalfLifeMinutes = 240
)

// clearedThreshold is the percent below which a compound is reported as
// fully cleared.
const clearedThreshold = 1.0

// Params describes one kinetics regime. Exactly two implementations exist:
// FirstOrder and MichaelisMenten.
type Params interface {
	concentrationAt(elapsedMinutes float64) float64
}

// FirstOrder is a linear absorption ramp to Tmax followed by exponential
// elimination. Scale dampens the whole curve for saturating high doses; it is
// 1 for ordinary doses.
type FirstOrder struct {
	PeakMinutes     float64
	HalfLifeMinutes float64
	Scale           float64
}

// MichaelisMenten is saturable-transporter absorption: the absorbed amount
// at time t follows A(t) = Km·W((A0/Km)·e^((A0−Vmax·t)/Km)) for the
// remaining unabsorbed amount A, normalized against the amount absorbed at
// Tmax. Elimination past Tmax is first-order, anchored at the achieved Cmax.
type MichaelisMenten struct {
	PeakMinutes     float64
	HalfLifeMinutes float64
	Vmax            float64
	Km              float64
	Dose            float64
}

// Concentration returns the percent-of-Cmax concentration, clamped to
// [0, 100], for the given kinetics at elapsedMinutes after dosing. Values
// below 1% are reported as 0.
func Concentration(params Params, elapsedMinutes float64) float64 {
	if params == nil || elapsedMinutes < 0 {
		return 0
	}

	pct := params.concentrationAt(elapsedMinutes)

	if math.IsNaN(pct) || pct < clearedThreshold {
		return 0
	}
	return math.Min(pct, 100)
}

// ParamsForProfile builds the kinetics parameters for a profile and dose,
// applying every fallback rule: missing or non-positive Michaelis-Menten
// constants degrade to first-order, and degenerate peak or half-life values
// take the conservative defaults.
func ParamsForProfile(profile *models.SupplementProfile, dose float64) Params {
	peak := DefaultPeakMinutes
	halfLife := DefaultHalfLifeMinutes

	peakMinutes := float64(peak)
	halfLifeMinutes := float64(halfLife)
	if profile != nil {
		if profile.PeakMinutes > 0 {
			peakMinutes = profile.PeakMinutes
		}
		if profile.HalfLifeMinutes > 0 {
			halfLifeMinutes = profile.HalfLifeMinutes
		}
	}

	if profile != nil && profile.KineticsType == models.KineticsMichaelisMenten &&
		profile.Vmax != nil && profile.Km != nil &&
		*profile.Vmax > 0 && *profile.Km > 0 && dose > 0 {
		return MichaelisMenten{
			PeakMinutes:     peakMinutes,
			HalfLifeMinutes: halfLifeMinutes,
			Vmax:            *profile.Vmax,
			Km:              *profile.Km,
			Dose:            dose,
		}
	}

	return FirstOrder{
		PeakMinutes:     peakMinutes,
		HalfLifeMinutes: halfLifeMinutes,
		Scale:           dampeningScale(profile, dose),
	}
}

// dampeningScale handles saturating high doses without explicit
// Michaelis-Menten constants: the excess above 3×RDA only contributes
// logarithmically, so the curve is scaled by effective/dose.
func dampeningScale(profile *models.SupplementProfile, dose float64) float64 {
	if profile == nil || profile.RDAAmount == nil || *profile.RDAAmount <= 0 || dose <= 0 {
		return 1
	}

	rda := *profile.RDAAmount
	threshold := 3 * rda
	if dose <= threshold {
		return 1
	}

	excess := dose - threshold
	effective := threshold + rda*math.Log(1+excess/rda)
	return effective / dose
}

func (p FirstOrder) concentrationAt(elapsed float64) float64 {
	peak := p.PeakMinutes
	halfLife := p.HalfLifeMinutes
	if peak <= 0 {
		peak = DefaultPeakMinutes
	}
	if halfLife <= 0 {
		halfLife = DefaultHalfLifeMinutes
	}

	scale := p.Scale
	if scale <= 0 || scale > 1 {
		scale = 1
	}

	if elapsed <= peak {
		return scale * 100 * elapsed / peak
	}

	k := math.Ln2 / halfLife
	return scale * 100 * math.Exp(-k*(elapsed-peak))
}

func (p MichaelisMenten) concentrationAt(elapsed float64) float64 {
	peak := p.PeakMinutes
	halfLife := p.HalfLifeMinutes
	if peak <= 0 {
		peak = DefaultPeakMinutes
	}
	if halfLife <= 0 {
		halfLife = DefaultHalfLifeMinutes
	}

	if elapsed <= peak {
		atPeak := p.absorbedAt(peak)
		if atPeak <= 0 {
			return 0
		}
		return 100 * p.absorbedAt(elapsed) / atPeak
	}

	k := math.Ln2 / halfLife
	return 100 * math.Exp(-k*(elapsed-peak))
}

// AbsorbedAt returns the amount absorbed by minute t. It never exceeds the
// dose and is monotonically increasing in t.
func (p MichaelisMenten) AbsorbedAt(t float64) float64 {
	return p.absorbedAt(t)
}

func (p MichaelisMenten) absorbedAt(t float64) float64 {
	if t <= 0 || p.Dose <= 0 || p.Km <= 0 || p.Vmax <= 0 {
		return 0
	}

	arg := (p.Dose / p.Km) * math.Exp((p.Dose-p.Vmax*t)/p.Km)
	if math.IsInf(arg, 1) {
		// Exponent overflow means essentially nothing absorbed yet.
		return 0
	}

	w, ok := LambertW0(arg)
	if !ok {
		// No real solution: treat as nothing absorbed rather than
		// propagating a NaN into a displayed percentage.
		return 0
	}

	remaining := p.Km * w
	if remaining > p.Dose {
		remaining = p.Dose
	}
	if remaining < 0 {
		remaining = 0
	}
	return p.Dose - remaining
}
