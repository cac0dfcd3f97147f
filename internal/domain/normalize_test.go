package domain

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_StandardSchema(t *testing.T) {
	n := NewNormalizer(map[string]SourceSchema{"alpine_peak": StandardSchema()})
	ts := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	rec := n.Normalize("alpine_peak", RawMetrics{
		"wind_speed_mph":       8.5,
		"temp_low_f":           18.0,
		"temp_high_f":          29.0,
		"snowfall_last_24h_in": 5.0,
		"base_depth_in":        32.0,
		"precip_type":          "Packed Powder",
		"is_operational":       true,
		"lifts_open":           5,
		"lifts_total":          8,
	}, ts)

	assert.Equal(t, "alpine_peak", rec.ResortID)
	assert.Equal(t, ts, rec.Timestamp)
	require.NotNil(t, rec.WindSpeed)
	assert.Equal(t, 8.5, *rec.WindSpeed)
	require.NotNil(t, rec.TempMin)
	assert.Equal(t, 18.0, *rec.TempMin)
	require.NotNil(t, rec.TempMax)
	assert.Equal(t, 29.0, *rec.TempMax)
	require.NotNil(t, rec.Snowfall24h)
	assert.Equal(t, 5.0, *rec.Snowfall24h)
	require.NotNil(t, rec.BaseDepth)
	assert.Equal(t, 32.0, *rec.BaseDepth)
	assert.Equal(t, "Packed Powder", rec.PrecipType)
	require.NotNil(t, rec.Operational)
	assert.True(t, *rec.Operational)
	require.NotNil(t, rec.LiftsOpen)
	assert.Equal(t, 5, *rec.LiftsOpen)
	require.NotNil(t, rec.LiftsTotal)
	assert.Equal(t, 8, *rec.LiftsTotal)

	assert.Nil(t, rec.Snowfall12h)
	assert.Nil(t, rec.WindChill)
	assert.Nil(t, rec.TrailsOpen)
}

func TestNormalize_MetricSchemaConverts(t *testing.T) {
	n := NewNormalizer(map[string]SourceSchema{"nordic": MetricSchema()})
	ts := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	rec := n.Normalize("nordic", RawMetrics{
		"wind_speed_kph":       20.0,
		"base_depth_cm":        100.0,
		"temp_high_c":          0.0,
		"snowfall_last_24h_cm": 10.0,
	}, ts)

	require.NotNil(t, rec.WindSpeed)
	assert.InDelta(t, 12.42742, *rec.WindSpeed, 1e-9)
	require.NotNil(t, rec.BaseDepth)
	assert.InDelta(t, 39.3701, *rec.BaseDepth, 1e-9)
	require.NotNil(t, rec.TempMax)
	assert.Equal(t, 32.0, *rec.TempMax)
	require.NotNil(t, rec.Snowfall24h)
	assert.InDelta(t, 3.93701, *rec.Snowfall24h, 1e-9)
}

func TestNormalize_UnknownResortPassesThroughCanonicalKeys(t *testing.T) {
	n := NewNormalizer(nil)
	ts := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	rec := n.Normalize("mystery", RawMetrics{
		FieldWindSpeed: 7.5,
		FieldBaseDepth: 24.0,
	}, ts)

	require.NotNil(t, rec.WindSpeed)
	assert.Equal(t, 7.5, *rec.WindSpeed)
	require.NotNil(t, rec.BaseDepth)
	assert.Equal(t, 24.0, *rec.BaseDepth)
}

func TestNormalize_ZeroTimestampUsesClock(t *testing.T) {
	frozen := time.Date(2026, 2, 1, 6, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	n := NewNormalizer(nil)
	rec := n.Normalize("alpine_peak", RawMetrics{}, time.Time{})

	assert.Equal(t, frozen, rec.Timestamp)
}

func TestNormalize_TransformRunsBeforeConversion(t *testing.T) {
	stripSuffix := func(v any) any {
		s, ok := v.(string)
		if !ok {
			return v
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "cm"), 64)
		if err != nil {
			return nil
		}
		return f
	}
	schema := SourceSchema{
		FieldBaseDepth: {Source: "base", Transform: stripSuffix, Convert: CmToInches},
	}
	n := NewNormalizer(map[string]SourceSchema{"r": schema})

	rec := n.Normalize("r", RawMetrics{"base": "100cm"}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NotNil(t, rec.BaseDepth)
	assert.InDelta(t, 39.3701, *rec.BaseDepth, 1e-9)
}

func TestNormalize_MissingValuesStayNil(t *testing.T) {
	n := NewNormalizer(map[string]SourceSchema{"r": StandardSchema()})

	rec := n.Normalize("r", RawMetrics{
		"wind_speed_mph": (*float64)(nil),
		"is_operational": (*bool)(nil),
	}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Nil(t, rec.WindSpeed)
	assert.Nil(t, rec.Operational)
	assert.Empty(t, rec.PrecipType)
}
