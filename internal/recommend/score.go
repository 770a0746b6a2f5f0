package recommend

import "math"

// Score is the catalog popularity metric: the approval ratio weighted by the
// natural log of total review volume, so a well-reviewed game with many
// reviews outranks an equally-liked obscure one without letting volume
// dominate. Zero reviews score zero. Only relative order matters; no caller
// compares against absolute thresholds.
func Score(positive, negative int64) float64 {
	total := positive + negative
	if total <= 0 {
		return 0
	}
	return (float64(positive) / float64(total)) * math.Log(float64(total)+1)
}
