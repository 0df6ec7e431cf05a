// SPDX-License-Identifier: Apache-2.0

package fuzzy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarcheck/scholarcheck-mcp/internal/fuzzy"
)

const delta = 0.01

func TestRatio(t *testing.T) {
	assert.InDelta(t, 100, fuzzy.Ratio("abc", "abc"), delta)
	assert.InDelta(t, 100, fuzzy.Ratio("", ""), delta)
	assert.InDelta(t, 0, fuzzy.Ratio("abc", ""), delta)
	assert.InDelta(t, 0, fuzzy.Ratio("abc", "xyz"), delta)
	// LCS 13 over 31 characters.
	assert.InDelta(t, 2600.0/31, fuzzy.Ratio("alice smith 101", "alicia smyth 101"), delta)
}

func TestPartialRatio(t *testing.T) {
	assert.InDelta(t, 100, fuzzy.PartialRatio("smith", "alice smith"), delta)
	assert.InDelta(t, 100, fuzzy.PartialRatio("alice smith", "smith"), delta)
	assert.InDelta(t, 0, fuzzy.PartialRatio("", "abc"), delta)
	assert.Greater(t, fuzzy.PartialRatio("smyth", "alice smith"), 75.0)
}

func TestTokenRatios(t *testing.T) {
	assert.InDelta(t, 100, fuzzy.TokenSortRatio("smith alice", "alice  smith"), delta)
	assert.InDelta(t, 100, fuzzy.TokenSetRatio("alice smith", "alice smith jr"), delta)
	assert.InDelta(t, 0, fuzzy.TokenSetRatio("", "alice"), delta)
	assert.InDelta(t, 100, fuzzy.PartialTokenRatio("alice", "bob alice"), delta)
	assert.InDelta(t, 0, fuzzy.PartialTokenRatio("   ", "alice"), delta)
	assert.InDelta(t, 100, fuzzy.TokenRatio("b a", "a b"), delta)
}

func TestWRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "alice smith 101", b: "alice smith 101", want: 100},
		{name: "empty side scores zero", a: "", b: "alice", want: 0},
		{name: "reordered words", a: "fuzzy wuzzy was a bear", b: "wuzzy fuzzy was a bear", want: 95},
		{name: "near spelling", a: "alice smith 101", b: "alicia smyth 101", want: 2600.0 / 31},
		{name: "substring of a much longer string", a: "alice", b: "alice smith jones", want: 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, fuzzy.WRatio(tt.a, tt.b), delta)
		})
	}
}

func TestWRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "abcdefghijklmnopqrstuvwxyz"},
		{"roll 17", "17 roll"},
		{"ß", "ss"},
		{"x y z", "z"},
	}
	for _, p := range pairs {
		s := fuzzy.WRatio(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, p)
		assert.LessOrEqual(t, s, 100.0, p)
		assert.InDelta(t, s, fuzzy.WRatio(p[1], p[0]), delta, "WRatio is symmetric for %v", p)
	}
}

func TestExtractOne(t *testing.T) {
	choices := []string{"bob jones 7", "alicia smyth 101", "alice smith 101"}

	m, ok := fuzzy.ExtractOne("alice smith 101", choices, nil, 85)
	require.True(t, ok)
	assert.Equal(t, 2, m.Index)
	assert.Equal(t, "alice smith 101", m.Choice)
	assert.InDelta(t, 100, m.Score, delta)

	_, ok = fuzzy.ExtractOne("zed", choices, nil, 95)
	assert.False(t, ok)

	_, ok = fuzzy.ExtractOne("anything", nil, nil, 0)
	assert.False(t, ok, "no choices never matches")

	m, ok = fuzzy.ExtractOne("a", []string{"x", "a", "a"}, fuzzy.Ratio, 50)
	require.True(t, ok)
	assert.Equal(t, 1, m.Index, "ties keep the earliest choice")
}
