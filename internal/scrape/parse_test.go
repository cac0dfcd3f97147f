package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumeric(t *testing.T) {
	tests := []struct {
		text string
		want *float64
	}{
		{`Base Depth: 32"`, f(32)},
		{"-4° overnight", f(-4)},
		{"2.5 inches", f(2.5)},
		{"no data", nil},
		{"", nil},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got := ExtractNumeric(tc.text)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestParseWind(t *testing.T) {
	tests := []struct {
		text    string
		speed   *float64
		dir     string
	}{
		{"NW, 5-12 mph", f(8.5), "NW"},
		{"W/NW, 17-30 mph", f(23.5), "WNW"},
		{"5-12 mph NW", f(8.5), "NW"},
		{"12 mph", f(12), ""},
		{"Winds E 10 mph", f(10), "E"},
		{"calm", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			speed, dir := ParseWind(tc.text)
			if tc.speed == nil {
				assert.Nil(t, speed)
				return
			}
			require.NotNil(t, speed)
			assert.Equal(t, *tc.speed, *speed)
			assert.Equal(t, tc.dir, dir)
		})
	}
}

func TestParseTemperature(t *testing.T) {
	t.Run("explicit labels", func(t *testing.T) {
		low, high := ParseTemperature("LOW 22° HIGH 32°")
		require.NotNil(t, low)
		require.NotNil(t, high)
		assert.Equal(t, 22.0, *low)
		assert.Equal(t, 32.0, *high)
	})

	t.Run("degree marks only", func(t *testing.T) {
		low, high := ParseTemperature("Overnight 18°, daytime 35°")
		require.NotNil(t, low)
		require.NotNil(t, high)
		assert.Equal(t, 18.0, *low)
		assert.Equal(t, 35.0, *high)
	})

	t.Run("single value is the high", func(t *testing.T) {
		low, high := ParseTemperature("28°F")
		assert.Nil(t, low)
		require.NotNil(t, high)
		assert.Equal(t, 28.0, *high)
	})

	t.Run("negative labeled high", func(t *testing.T) {
		low, high := ParseTemperature("High: -4")
		assert.Nil(t, low)
		require.NotNil(t, high)
		assert.Equal(t, -4.0, *high)
	})

	t.Run("no temperatures", func(t *testing.T) {
		low, high := ParseTemperature("windy with flurries")
		assert.Nil(t, low)
		assert.Nil(t, high)
	})
}

func TestParseOpenCounts(t *testing.T) {
	t.Run("label first", func(t *testing.T) {
		open, total := ParseOpenCounts("Lifts Open: 5 of 12", "lifts open")
		require.NotNil(t, open)
		require.NotNil(t, total)
		assert.Equal(t, 5, *open)
		assert.Equal(t, 12, *total)
	})

	t.Run("counts first", func(t *testing.T) {
		open, total := ParseOpenCounts("5/12 lifts open today", "lifts open")
		require.NotNil(t, open)
		require.NotNil(t, total)
		assert.Equal(t, 5, *open)
		assert.Equal(t, 12, *total)
	})

	t.Run("bare count without total", func(t *testing.T) {
		open, total := ParseOpenCounts("Trails open 30", "trails open")
		require.NotNil(t, open)
		assert.Equal(t, 30, *open)
		assert.Nil(t, total)
	})

	t.Run("alternate labels", func(t *testing.T) {
		open, total := ParseOpenCounts("88 of 120 runs open", "trails open", "runs open")
		require.NotNil(t, open)
		require.NotNil(t, total)
		assert.Equal(t, 88, *open)
		assert.Equal(t, 120, *total)
	})

	t.Run("no match", func(t *testing.T) {
		open, total := ParseOpenCounts("everything is great", "lifts open")
		assert.Nil(t, open)
		assert.Nil(t, total)
	})
}

func TestDetectStatus(t *testing.T) {
	tests := []struct {
		text string
		want *bool
	}{
		{"Status: Open", b(true)},
		{"Mountain status closed for wind", b(false)},
		{"Projected Opening: December 5th", b(false)},
		{"Closed for the season. See you next year!", b(false)},
		{"Fresh snow and sunshine", nil},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got := DetectStatus(tc.text)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestSurfaceCondition(t *testing.T) {
	assert.Equal(t, "Packed Powder", SurfaceCondition("groomed packed powder throughout"))
	assert.Equal(t, "Machine Groomed", SurfaceCondition("Machine Groomed overnight"))
	assert.Equal(t, "Variable", SurfaceCondition("variable conditions up top"))
	assert.Empty(t, SurfaceCondition("slushy at the bottom"))
}

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }
