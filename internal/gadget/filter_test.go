package gadget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterDefaults(t *testing.T) {
	f, err := ParseFilter("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, AllGadgets(), f)
}

func TestParseFilterRejectsMalformed(t *testing.T) {
	cases := []struct{ status, min, max string }{
		{"", "abc", ""},
		{"", "", "1.5"},
		{"", "50%", ""},
		{"BROKEN", "", ""},
		{"available", "", ""},
	}
	for _, tc := range cases {
		_, err := ParseFilter(tc.status, tc.min, tc.max, "")
		assert.ErrorIs(t, err, ErrInvalidFilter, "status=%q min=%q max=%q", tc.status, tc.min, tc.max)
	}
}

func TestFilterMatch(t *testing.T) {
	g := Gadget{Name: "Phantom Umbrella", SuccessProbability: 42, Status: StatusAvailable}

	assert.True(t, AllGadgets().Match(g))
	assert.True(t, Filter{Name: "umbr", MinProbability: 42, MaxProbability: 42}.Match(g))
	assert.False(t, Filter{Name: "falcon", MaxProbability: 100}.Match(g))
	assert.False(t, Filter{Status: StatusDestroyed, MaxProbability: 100}.Match(g))
	assert.False(t, Filter{MinProbability: 60, MaxProbability: 40}.Match(g))
}
