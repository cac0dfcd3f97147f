package domain

import (
	"fmt"
	"strings"
)

// ScoringConfig holds every coefficient of the scoring algorithm. The
// relative weighting of factors is a product decision, so nothing here is
// hardcoded in Score; all values can be overridden through configuration.
type ScoringConfig struct {
	BaseScore float64
	MinScore  float64
	MaxScore  float64

	BaseDepthFloor            float64 // inches
	BaseDepthWeight           float64 // points per inch
	BaseDepthShortfallPerInch float64 // extra penalty per inch below the floor

	FreshSnowBonusPerInch float64
	PowderBonus           float64
	IcyPenalty            float64

	UnknownStatusPenalty float64

	IdealWindSpeed    float64 // mph; no penalty at or below this
	WindPenaltyPerMPH float64

	TempBandLow          float64 // °F
	TempBandHigh         float64 // °F
	TempPenaltyPerDegree float64

	OpennessWeightPerPercent float64 // applied to open/total * 100, trails and lifts independently

	MissingMetricPenalty float64 // flat penalty per absent key metric
}

// DefaultScoringConfig returns the stock coefficients.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BaseScore:                 50,
		MinScore:                  0,
		MaxScore:                  100,
		BaseDepthFloor:            18,
		BaseDepthWeight:           0.5,
		BaseDepthShortfallPerInch: 0.75,
		FreshSnowBonusPerInch:     2.0,
		PowderBonus:               12,
		IcyPenalty:                15,
		UnknownStatusPenalty:      10,
		IdealWindSpeed:            0,
		WindPenaltyPerMPH:         0.75,
		TempBandLow:               32,
		TempBandHigh:              38,
		TempPenaltyPerDegree:      0.5,
		OpennessWeightPerPercent:  0.1,
		MissingMetricPenalty:      2,
	}
}

// Score combines the current record with the immediately preceding one into
// a bounded score, an ordered rationale, and the powder/icy flags. previous
// may be nil when no history exists. Missing data never fails a scoring
// call; it degrades the score through the missing-metric penalty.
func Score(current ConditionRecord, previous *ConditionRecord, cfg ScoringConfig) ScoreResult {
	// Closure dominates every other factor.
	if current.Operational != nil && !*current.Operational {
		return ScoreResult{
			Score:     0,
			Notes:     []string{"resort closed"},
			Rationale: "resort closed",
		}
	}

	score := cfg.BaseScore
	var notes []string

	// Base depth, with a shortfall penalty below the configured floor. An
	// absent depth is assumed to sit at the floor and noted as such.
	if current.BaseDepth != nil {
		depth := *current.BaseDepth
		score += depth * cfg.BaseDepthWeight
		note := fmt.Sprintf("base depth %.1fin", depth)
		if depth < cfg.BaseDepthFloor {
			shortfall := cfg.BaseDepthFloor - depth
			score -= shortfall * cfg.BaseDepthShortfallPerInch
			note += fmt.Sprintf(" (%.1fin below %.1fin floor)", shortfall, cfg.BaseDepthFloor)
		}
		notes = append(notes, note)
	} else {
		score += cfg.BaseDepthFloor * cfg.BaseDepthWeight
		notes = append(notes, fmt.Sprintf("base depth missing, assumed %.1fin", cfg.BaseDepthFloor))
	}

	// Fresh snow: 24h strictly wins over 12h when both are present; the two
	// are never averaged or summed.
	fresh := 0.0
	switch {
	case current.Snowfall24h != nil:
		fresh = max(*current.Snowfall24h, 0)
	case current.Snowfall12h != nil:
		fresh = max(*current.Snowfall12h, 0)
	}
	score += fresh * cfg.FreshSnowBonusPerInch
	notes = append(notes, fmt.Sprintf("fresh snow %.1fin", fresh))

	powder := powderFlag(previous)
	if powder {
		score += cfg.PowderBonus
		notes = append(notes, "powder bonus applied")
	}

	icy := icyFlag(previous, current)
	if icy {
		score -= cfg.IcyPenalty
		notes = append(notes, "icy penalty applied")
	}

	if current.Operational == nil {
		score -= cfg.UnknownStatusPenalty
		notes = append(notes, "operational status unknown")
	}

	if current.WindSpeed != nil {
		wind := *current.WindSpeed
		if wind > cfg.IdealWindSpeed {
			score -= (wind - cfg.IdealWindSpeed) * cfg.WindPenaltyPerMPH
			notes = append(notes, fmt.Sprintf("wind penalty from %.1fmph", wind))
		} else {
			notes = append(notes, "winds within ideal range")
		}
	}

	// Temperature band on the mean of whichever bounds are present. Missing
	// temperature data is not penalized here; the missing-metric step below
	// handles that.
	if avg, ok := meanTemperature(current); ok {
		switch {
		case avg < cfg.TempBandLow:
			score -= (cfg.TempBandLow - avg) * cfg.TempPenaltyPerDegree
			notes = append(notes, fmt.Sprintf("avg temp %.1f°F below ideal band", avg))
		case avg > cfg.TempBandHigh:
			score -= (avg - cfg.TempBandHigh) * cfg.TempPenaltyPerDegree
			notes = append(notes, fmt.Sprintf("avg temp %.1f°F above ideal band", avg))
		default:
			notes = append(notes, fmt.Sprintf("avg temp %.1f°F in ideal band", avg))
		}
	} else {
		notes = append(notes, "temperature data missing")
	}

	// Trail and lift openness, computed independently when totals are known.
	if pct, ok := opennessPercent(current.TrailsOpen, current.TrailsTotal); ok {
		score += pct * cfg.OpennessWeightPerPercent
		notes = append(notes, fmt.Sprintf("trails %d/%d open", *current.TrailsOpen, *current.TrailsTotal))
	}
	if pct, ok := opennessPercent(current.LiftsOpen, current.LiftsTotal); ok {
		score += pct * cfg.OpennessWeightPerPercent
		notes = append(notes, fmt.Sprintf("lifts %d/%d open", *current.LiftsOpen, *current.LiftsTotal))
	}

	// Flat penalty per absent key metric, so sparse reports do not rank
	// artificially high.
	missing := 0
	for _, present := range []bool{
		current.BaseDepth != nil,
		current.Snowfall24h != nil,
		current.WindSpeed != nil,
		current.TempMax != nil,
	} {
		if !present {
			missing++
		}
	}
	if missing > 0 {
		score -= float64(missing) * cfg.MissingMetricPenalty
		notes = append(notes, fmt.Sprintf("%d key metrics missing", missing))
	}

	clamped := min(max(score, cfg.MinScore), cfg.MaxScore)
	notes = append(notes, fmt.Sprintf("clamped to range %.0f-%.0f", cfg.MinScore, cfg.MaxScore))

	return ScoreResult{
		Score:     clamped,
		Notes:     notes,
		Rationale: strings.Join(notes, "; "),
		Powder:    powder,
		Icy:       icy,
	}
}

// powderFlag reports whether yesterday's reading suggests powder: an
// explicit "snow" precipitation type, or failing that, any positive recent
// snowfall in the previous record.
func powderFlag(previous *ConditionRecord) bool {
	if previous == nil {
		return false
	}
	if previous.PrecipType != "" {
		return strings.EqualFold(previous.PrecipType, "snow")
	}
	return floatOr(previous.Snowfall24h, 0) > 0 || floatOr(previous.Snowfall12h, 0) > 0
}

// icyFlag reports rain in the previous record or a current max temperature
// at or below freezing. Powder and icy are not mutually exclusive.
func icyFlag(previous *ConditionRecord, current ConditionRecord) bool {
	if previous != nil && strings.EqualFold(previous.PrecipType, "rain") {
		return true
	}
	return current.TempMax != nil && *current.TempMax <= 32
}

func meanTemperature(rec ConditionRecord) (float64, bool) {
	var sum float64
	var n int
	if rec.TempMin != nil {
		sum += *rec.TempMin
		n++
	}
	if rec.TempMax != nil {
		sum += *rec.TempMax
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func opennessPercent(open, total *int) (float64, bool) {
	if open == nil || total == nil || *total == 0 {
		return 0, false
	}
	return float64(*open) / float64(*total) * 100, true
}
