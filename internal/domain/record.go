package domain

import (
	"time"
)

// RawMetrics is the loosely typed mapping produced by one extractor call.
// Keys are source-specific field names; values are numbers, strings, or
// booleans. A RawMetrics is ephemeral: it is consumed by the normalizer
// immediately and never stored.
type RawMetrics map[string]any

// Float coerces the value under key to a float pointer. Missing keys,
// explicit nils, and non-numeric values all return nil.
func (m RawMetrics) Float(key string) *float64 {
	return asFloat(m[key])
}

// Int coerces the value under key to an int pointer.
func (m RawMetrics) Int(key string) *int {
	f := asFloat(m[key])
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// String returns the value under key as a string, or "" when absent.
func (m RawMetrics) String(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

// Bool returns the tri-state boolean under key: nil means unknown.
func (m RawMetrics) Bool(key string) *bool {
	switch v := m[key].(type) {
	case bool:
		b := v
		return &b
	case *bool:
		return v
	default:
		return nil
	}
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case *float64:
		return n
	case *int:
		if n == nil {
			return nil
		}
		f := float64(*n)
		return &f
	default:
		return nil
	}
}

// Canonical ConditionRecord field names. A SourceSchema maps these to
// source-specific keys; when no mapping exists the normalizer reads the
// canonical name from RawMetrics directly.
const (
	FieldWindSpeed   = "wind_speed"
	FieldWindChill   = "wind_chill"
	FieldTempMin     = "temp_min"
	FieldTempMax     = "temp_max"
	FieldSnowfall12h = "snowfall_12h"
	FieldSnowfall24h = "snowfall_24h"
	FieldSnowfall7d  = "snowfall_7d"
	FieldBaseDepth   = "base_depth"
	FieldPrecipType  = "precip_type"
	FieldOperational = "is_operational"
	FieldLiftsOpen   = "lifts_open"
	FieldLiftsTotal  = "lifts_total"
	FieldTrailsOpen  = "trails_open"
	FieldTrailsTotal = "trails_total"
)

// ConditionRecord is the canonical, unit-normalized snow condition snapshot
// for one resort. All speeds are mph, temperatures °F, depths inches.
// Pointer fields are optional; nil means the source did not report the value.
// Operational is tri-state: nil is unknown, not closed.
type ConditionRecord struct {
	ResortID    string     `json:"resort_id"`
	Timestamp   time.Time  `json:"timestamp"`
	WindSpeed   *float64   `json:"wind_speed,omitempty"`
	WindChill   *float64   `json:"wind_chill,omitempty"`
	TempMin     *float64   `json:"temp_min,omitempty"`
	TempMax     *float64   `json:"temp_max,omitempty"`
	Snowfall12h *float64   `json:"snowfall_12h,omitempty"`
	Snowfall24h *float64   `json:"snowfall_24h,omitempty"`
	Snowfall7d  *float64   `json:"snowfall_7d,omitempty"`
	BaseDepth   *float64   `json:"base_depth,omitempty"`
	PrecipType  string     `json:"precip_type,omitempty"`
	Operational *bool      `json:"is_operational,omitempty"`
	LiftsOpen   *int       `json:"lifts_open,omitempty"`
	LiftsTotal  *int       `json:"lifts_total,omitempty"`
	TrailsOpen  *int       `json:"trails_open,omitempty"`
	TrailsTotal *int       `json:"trails_total,omitempty"`
}

// ScoreResult is the output of one scoring call. Rationale is the ordered,
// semicolon-joined trace of every factor that moved the score; downstream
// consumers present it verbatim.
type ScoreResult struct {
	Score     float64  `json:"score"`
	Notes     []string `json:"-"`
	Rationale string   `json:"rationale"`
	Powder    bool     `json:"powder"`
	Icy       bool     `json:"icy"`
}

// WeatherObservation carries supplemental wind/temperature readings used to
// fill gaps an extractor could not determine. Values are already imperial.
type WeatherObservation struct {
	TemperatureF *float64
	WindSpeedMPH *float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
