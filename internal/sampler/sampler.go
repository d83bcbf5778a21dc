// Package sampler picks diverse combinations out of a design space.
package sampler

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ideaforge/internal/types"
)

// Sampler selects design-parameter combinations that are maximally
// spread out across the space. The zero value seeds itself from the
// clock; tests inject a fixed source for determinism.
type Sampler struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// Diverse returns up to count parameter strings of the form
// "Dimension: Option, Dimension: Option, ...". The first pick is
// uniformly random; each subsequent pick greedily maximizes the summed
// Hamming distance to everything already chosen. When the space holds
// fewer combinations than requested, all of them are returned.
func (s *Sampler) Diverse(space types.DesignSpace, count int) []string {
	combos := indexCombinations(space)
	if len(combos) == 0 || count <= 0 {
		return nil
	}
	if count > len(combos) {
		count = len(combos)
	}

	picked := make([][]int, 0, count)
	remaining := make([][]int, len(combos))
	copy(remaining, combos)

	first := s.rng.Intn(len(remaining))
	picked = append(picked, remaining[first])
	remaining = append(remaining[:first], remaining[first+1:]...)

	for len(picked) < count {
		bestIdx, bestScore := 0, -1
		for i, cand := range remaining {
			score := 0
			for _, p := range picked {
				score += hamming(cand, p)
			}
			if score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
		picked = append(picked, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	out := make([]string, len(picked))
	for i, combo := range picked {
		out[i] = formatCombo(space, combo)
	}
	return out
}

// indexCombinations enumerates the cartesian product of option indices,
// one per dimension. Dimensions without options are skipped.
func indexCombinations(space types.DesignSpace) [][]int {
	dims := make([]int, 0, len(space))
	for _, d := range space {
		if len(d.Options) > 0 {
			dims = append(dims, len(d.Options))
		}
	}
	if len(dims) == 0 {
		return nil
	}
	total := 1
	for _, n := range dims {
		total *= n
	}
	out := make([][]int, 0, total)
	combo := make([]int, len(dims))
	for {
		cp := make([]int, len(combo))
		copy(cp, combo)
		out = append(out, cp)
		i := len(combo) - 1
		for i >= 0 {
			combo[i]++
			if combo[i] < dims[i] {
				break
			}
			combo[i] = 0
			i--
		}
		if i < 0 {
			return out
		}
	}
}

func hamming(a, b []int) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

func formatCombo(space types.DesignSpace, combo []int) string {
	var parts []string
	i := 0
	for _, dim := range space {
		if len(dim.Options) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", dim.DimensionName, dim.Options[combo[i]].OptionName))
		i++
	}
	return strings.Join(parts, ", ")
}
