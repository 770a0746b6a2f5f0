package recommend

import (
	mathrand "math/rand"

	"gamedex/internal/catalog"
)

// SelectForDisplay picks the games actually shown to the user. When the
// candidate pool is larger than n it returns a uniform sample without
// replacement, so identical queries don't always show the identical top-n;
// the pool itself is already rank-capped, so every pick is a top candidate.
// Smaller pools come back whole, in rank order.
func SelectForDisplay(rng *mathrand.Rand, candidates []catalog.Game, n int) []catalog.Game {
	if n <= 0 {
		return nil
	}
	if len(candidates) <= n {
		return candidates
	}
	out := make([]catalog.Game, 0, n)
	for _, i := range rng.Perm(len(candidates))[:n] {
		out = append(out, candidates[i])
	}
	return out
}
