package domain

import (
	"time"
)

// Transform is an optional pre-transform applied to the raw value before any
// unit conversion, e.g. trimming a suffix or reinterpreting a sentinel.
type Transform func(any) any

// FieldMapping describes how one canonical field is pulled out of a raw
// metrics payload: read Source, apply Transform, then Convert (only when the
// value is present and numeric). Immutable after construction.
type FieldMapping struct {
	Source    string
	Transform Transform
	Convert   UnitConverter
}

func (fm FieldMapping) extract(raw RawMetrics) any {
	v := raw[fm.Source]
	if fm.Transform != nil {
		v = fm.Transform(v)
	}
	if fm.Convert != nil {
		if f := asFloat(v); f != nil {
			v = fm.Convert(*f)
		}
	}
	return v
}

// SourceSchema is a resort's full set of field mappings, keyed by canonical
// field name. Fields without a mapping fall through to the canonical name in
// RawMetrics (identity passthrough).
type SourceSchema map[string]FieldMapping

// Normalizer converts raw extractor payloads into canonical ConditionRecords
// using per-resort schemas.
type Normalizer struct {
	schemas map[string]SourceSchema
}

// NewNormalizer creates a Normalizer from resort-id-keyed schemas.
func NewNormalizer(schemas map[string]SourceSchema) *Normalizer {
	copied := make(map[string]SourceSchema, len(schemas))
	for id, schema := range schemas {
		copied[id] = schema
	}
	return &Normalizer{schemas: copied}
}

// Normalize builds a ConditionRecord from a raw metrics payload. A zero
// timestamp defaults to the current UTC time.
func (n *Normalizer) Normalize(resortID string, raw RawMetrics, timestamp time.Time) ConditionRecord {
	schema := n.schemas[resortID]
	if timestamp.IsZero() {
		timestamp = clock.Now().UTC()
	}

	resolve := func(field string) any {
		if fm, ok := schema[field]; ok {
			return fm.extract(raw)
		}
		return raw[field]
	}
	resolveFloat := func(field string) *float64 { return asFloat(resolve(field)) }
	resolveInt := func(field string) *int {
		f := asFloat(resolve(field))
		if f == nil {
			return nil
		}
		v := int(*f)
		return &v
	}
	resolveString := func(field string) string {
		s, _ := resolve(field).(string)
		return s
	}
	resolveBool := func(field string) *bool {
		switch v := resolve(field).(type) {
		case bool:
			b := v
			return &b
		case *bool:
			return v
		default:
			return nil
		}
	}

	return ConditionRecord{
		ResortID:    resortID,
		Timestamp:   timestamp,
		WindSpeed:   resolveFloat(FieldWindSpeed),
		WindChill:   resolveFloat(FieldWindChill),
		TempMin:     resolveFloat(FieldTempMin),
		TempMax:     resolveFloat(FieldTempMax),
		Snowfall12h: resolveFloat(FieldSnowfall12h),
		Snowfall24h: resolveFloat(FieldSnowfall24h),
		Snowfall7d:  resolveFloat(FieldSnowfall7d),
		BaseDepth:   resolveFloat(FieldBaseDepth),
		PrecipType:  resolveString(FieldPrecipType),
		Operational: resolveBool(FieldOperational),
		LiftsOpen:   resolveInt(FieldLiftsOpen),
		LiftsTotal:  resolveInt(FieldLiftsTotal),
		TrailsOpen:  resolveInt(FieldTrailsOpen),
		TrailsTotal: resolveInt(FieldTrailsTotal),
	}
}

// StandardSchema maps the imperial-unit source keys emitted by the bundled
// extractors onto canonical fields. No conversions are needed.
func StandardSchema() SourceSchema {
	return SourceSchema{
		FieldWindSpeed:   {Source: "wind_speed_mph"},
		FieldWindChill:   {Source: "wind_chill_f"},
		FieldTempMin:     {Source: "temp_low_f"},
		FieldTempMax:     {Source: "temp_high_f"},
		FieldSnowfall12h: {Source: "snowfall_last_12h_in"},
		FieldSnowfall24h: {Source: "snowfall_last_24h_in"},
		FieldSnowfall7d:  {Source: "snowfall_last_7d_in"},
		FieldBaseDepth:   {Source: "base_depth_in"},
		FieldPrecipType:  {Source: "precip_type"},
		FieldOperational: {Source: "is_operational"},
		FieldLiftsOpen:   {Source: "lifts_open"},
		FieldLiftsTotal:  {Source: "lifts_total"},
		FieldTrailsOpen:  {Source: "trails_open"},
		FieldTrailsTotal: {Source: "trails_total"},
	}
}

// MetricSchema serves sources that report metric units: wind in kph, snow
// depths in cm, temperatures in °C. Conversions run only on present values.
func MetricSchema() SourceSchema {
	return SourceSchema{
		FieldWindSpeed:   {Source: "wind_speed_kph", Convert: KphToMph},
		FieldWindChill:   {Source: "wind_chill_c", Convert: CelsiusToFahrenheit},
		FieldTempMin:     {Source: "temp_low_c", Convert: CelsiusToFahrenheit},
		FieldTempMax:     {Source: "temp_high_c", Convert: CelsiusToFahrenheit},
		FieldSnowfall12h: {Source: "snowfall_last_12h_cm", Convert: CmToInches},
		FieldSnowfall24h: {Source: "snowfall_last_24h_cm", Convert: CmToInches},
		FieldSnowfall7d:  {Source: "snowfall_last_7d_cm", Convert: CmToInches},
		FieldBaseDepth:   {Source: "base_depth_cm", Convert: CmToInches},
		FieldPrecipType:  {Source: "precip_type"},
		FieldOperational: {Source: "is_operational"},
		FieldLiftsOpen:   {Source: "lifts_open"},
		FieldLiftsTotal:  {Source: "lifts_total"},
		FieldTrailsOpen:  {Source: "trails_open"},
		FieldTrailsTotal: {Source: "trails_total"},
	}
}
