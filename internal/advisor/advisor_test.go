package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubGenerator struct {
	out   string
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.out, s.err
}

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

func sampleResorts() []ScoredResort {
	return []ScoredResort{
		{
			Name: "Summit Valley", Score: 61,
			Rationale: "base depth 22.0in; fresh snow 0.0in; clamped to range 0-100",
			WindSpeed: f(22),
		},
		{
			Name: "Alpine Peak", Score: 88,
			Rationale:   "base depth 40.0in; fresh snow 6.0in; powder bonus applied; clamped to range 0-100",
			Powder:      true,
			Snowfall24h: f(6),
			WindSpeed:   f(5),
			TrailsOpen:  n(40), TrailsTotal: n(48),
		},
	}
}

func TestSummarizeTop_RuleBased(t *testing.T) {
	a := New(nil, discardLogger())

	out := a.SummarizeTop(context.Background(), sampleResorts(), 3)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, `Alpine Peak (88): powder + 6.0" fresh. base depth 40.0in; fresh snow 6.0in; powder bonus applied; clamped to range 0-100`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Summit Valley (61): decent conditions."))
}

func TestSummarizeTop_TopNLimits(t *testing.T) {
	a := New(nil, discardLogger())

	out := a.SummarizeTop(context.Background(), sampleResorts(), 1)

	assert.Len(t, strings.Split(out, "\n"), 1)
	assert.Contains(t, out, "Alpine Peak")
}

func TestSummarizeTop_EmptyInput(t *testing.T) {
	a := New(&stubGenerator{out: "should not be used"}, discardLogger())

	out := a.SummarizeTop(context.Background(), nil, 3)

	assert.Equal(t, "No resort scores are available to summarize yet.", out)
}

func TestSummarizeTop_GeneratorOutputWins(t *testing.T) {
	gen := &stubGenerator{out: "  Alpine Peak is the move today.  "}
	a := New(gen, discardLogger())

	out := a.SummarizeTop(context.Background(), sampleResorts(), 3)

	assert.Equal(t, "Alpine Peak is the move today.", out)
	assert.Equal(t, 1, gen.calls)
}

func TestSummarizeTop_GeneratorFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	a := New(gen, discardLogger())

	out := a.SummarizeTop(context.Background(), sampleResorts(), 3)

	assert.Contains(t, out, "Alpine Peak (88)")
	assert.Equal(t, 1, gen.calls)
}

func TestSummarizeTop_EmptyGeneratorOutputFallsBack(t *testing.T) {
	gen := &stubGenerator{out: "   "}
	a := New(gen, discardLogger())

	out := a.SummarizeTop(context.Background(), sampleResorts(), 3)

	assert.Contains(t, out, "Alpine Peak (88)")
}

func TestDailyRecommendation_RuleBased(t *testing.T) {
	a := New(nil, discardLogger())

	out := a.DailyRecommendation(context.Background(), sampleResorts())

	assert.True(t, strings.HasPrefix(out, "Alpine Peak (88): powder + 6.0\" fresh."))
	assert.Contains(t, out, "Backup: Summit Valley.")
}

func TestDailyRecommendation_EmptyInput(t *testing.T) {
	a := New(nil, discardLogger())

	out := a.DailyRecommendation(context.Background(), nil)

	assert.Equal(t, "No resort data is available to recommend a destination today.", out)
}

func TestHighlights(t *testing.T) {
	t.Run("caps at two", func(t *testing.T) {
		r := ScoredResort{
			Powder:      true,
			Snowfall24h: f(4),
			WindSpeed:   f(3),
		}
		assert.Equal(t, `powder + 4.0" fresh`, highlights(r, "fallback"))
	})

	t.Run("calm winds under 15mph", func(t *testing.T) {
		assert.Equal(t, "calm winds", highlights(ScoredResort{WindSpeed: f(14)}, "fallback"))
		assert.Equal(t, "fallback", highlights(ScoredResort{WindSpeed: f(15)}, "fallback"))
	})

	t.Run("most trails open above 70 percent", func(t *testing.T) {
		r := ScoredResort{TrailsOpen: n(36), TrailsTotal: n(48)}
		assert.Equal(t, "most trails open", highlights(r, "fallback"))

		r = ScoredResort{TrailsOpen: n(20), TrailsTotal: n(48)}
		assert.Equal(t, "fallback", highlights(r, "fallback"))
	})
}

func TestFormatResorts_ConditionDetails(t *testing.T) {
	resorts := []ScoredResort{{
		Name: "Alpine Peak", Score: 88,
		Snowfall24h: f(6), BaseDepth: f(40), WindSpeed: f(5),
		TempMin: f(20), TempMax: f(30), PrecipType: "snow",
		TrailsOpen: n(40), TrailsTotal: n(48),
		Powder:      true,
		Operational: func() *bool { v := true; return &v }(),
	}}

	out := formatResorts(resorts)

	assert.Contains(t, out, "- Alpine Peak: Score 88")
	assert.Contains(t, out, "24hr snow: 6.0in")
	assert.Contains(t, out, "base: 40in")
	assert.Contains(t, out, "wind: 5mph")
	assert.Contains(t, out, "temps: 20°F to 30°F")
	assert.Contains(t, out, "trails: 40/48")
	assert.Contains(t, out, "POWDER CONDITIONS")
	assert.Contains(t, out, "STATUS: OPEN")
}
