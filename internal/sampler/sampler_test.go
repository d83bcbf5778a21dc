package sampler

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge/internal/types"
)

func space3x3x3() types.DesignSpace {
	mk := func(name string, opts ...string) types.Dimension {
		d := types.Dimension{DimensionName: name}
		for _, o := range opts {
			d.Options = append(d.Options, types.Option{OptionName: o})
		}
		return d
	}
	return types.DesignSpace{
		mk("Navigation", "Tabs", "Drawer", "Cards"),
		mk("Density", "Compact", "Roomy", "Adaptive"),
		mk("Guidance", "Wizard", "Freeform", "Hints"),
	}
}

func TestDiverse_CountAndFormat(t *testing.T) {
	s := New(rand.New(rand.NewSource(1)))
	got := s.Diverse(space3x3x3(), 4)
	require.Len(t, got, 4)
	for _, combo := range got {
		parts := strings.Split(combo, ", ")
		require.Len(t, parts, 3, "combo %q", combo)
		for _, p := range parts {
			assert.Contains(t, p, ": ", "combo %q", combo)
		}
	}
}

func TestDiverse_NoDuplicates(t *testing.T) {
	s := New(rand.New(rand.NewSource(7)))
	got := s.Diverse(space3x3x3(), 4)
	seen := map[string]bool{}
	for _, c := range got {
		require.False(t, seen[c], "duplicate combination %q", c)
		seen[c] = true
	}
}

func TestDiverse_SecondPickMaximizesDistance(t *testing.T) {
	// With three 3-option dimensions there is always a combination at
	// Hamming distance 3 from the first pick; the greedy step must find
	// one.
	s := New(rand.New(rand.NewSource(42)))
	got := s.Diverse(space3x3x3(), 2)
	require.Len(t, got, 2)
	a := strings.Split(got[0], ", ")
	b := strings.Split(got[1], ", ")
	for i := range a {
		assert.NotEqual(t, a[i], b[i], "second pick shares an assignment with the first")
	}
}

func TestDiverse_SmallSpaceReturnsEverything(t *testing.T) {
	space := types.DesignSpace{{
		DimensionName: "Only",
		Options:       []types.Option{{OptionName: "A"}, {OptionName: "B"}},
	}}
	s := New(rand.New(rand.NewSource(3)))
	require.Len(t, s.Diverse(space, 4), 2)
}

func TestDiverse_EmptySpace(t *testing.T) {
	s := New(nil)
	assert.Nil(t, s.Diverse(nil, 4))
}

func TestDiverse_DeterministicWithFixedSeed(t *testing.T) {
	a := New(rand.New(rand.NewSource(9))).Diverse(space3x3x3(), 4)
	b := New(rand.New(rand.NewSource(9))).Diverse(space3x3x3(), 4)
	require.Equal(t, a, b)
}
