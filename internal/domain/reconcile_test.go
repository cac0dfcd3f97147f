package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		rec  ConditionRecord
		want *bool
	}{
		{
			name: "open trails override explicit closed flag",
			rec:  ConditionRecord{Operational: Bool(false), TrailsOpen: Int(3)},
			want: Bool(true),
		},
		{
			name: "open lifts override explicit closed flag",
			rec:  ConditionRecord{Operational: Bool(false), LiftsOpen: Int(2)},
			want: Bool(true),
		},
		{
			name: "zero trails open does not force anything",
			rec:  ConditionRecord{Operational: Bool(false), TrailsOpen: Int(0)},
			want: Bool(false),
		},
		{
			name: "explicit open is kept",
			rec:  ConditionRecord{Operational: Bool(true)},
			want: Bool(true),
		},
		{
			name: "unknown with deep base infers open",
			rec:  ConditionRecord{BaseDepth: Float(10)},
			want: Bool(true),
		},
		{
			name: "unknown with shallow base and recent snow infers open",
			rec:  ConditionRecord{BaseDepth: Float(3), Snowfall24h: Float(2)},
			want: Bool(true),
		},
		{
			name: "unknown with 12h snow only infers open",
			rec:  ConditionRecord{Snowfall12h: Float(1)},
			want: Bool(true),
		},
		{
			name: "unknown with no signals stays unknown",
			rec:  ConditionRecord{BaseDepth: Float(3)},
			want: nil,
		},
		{
			name: "uncontradicted closed stays closed",
			rec:  ConditionRecord{Operational: Bool(false), BaseDepth: Float(40)},
			want: Bool(false),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Reconcile(tc.rec)
			if tc.want == nil {
				assert.Nil(t, got.Operational)
				return
			}
			require.NotNil(t, got.Operational)
			assert.Equal(t, *tc.want, *got.Operational)
		})
	}
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	rec := ConditionRecord{Operational: Bool(false), TrailsOpen: Int(5)}

	out := Reconcile(rec)

	require.NotNil(t, out.Operational)
	assert.True(t, *out.Operational)
	assert.False(t, *rec.Operational)
}
