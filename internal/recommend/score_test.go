package recommend

import (
	"math"
	"testing"
)

func TestScoreZeroReviews(t *testing.T) {
	if got := Score(0, 0); got != 0 {
		t.Fatalf("score(0,0) = %v, want 0", got)
	}
}

func TestScoreIncreasesWithPositives(t *testing.T) {
	for _, negative := range []int64{0, 5, 100} {
		prev := Score(0, negative)
		for positive := int64(1); positive <= 50; positive++ {
			got := Score(positive, negative)
			if got <= prev && positive+negative > 0 {
				t.Fatalf("score(%d,%d)=%v not greater than score(%d,%d)=%v",
					positive, negative, got, positive-1, negative, prev)
			}
			prev = got
		}
	}
}

func TestScoreKnownValues(t *testing.T) {
	tests := []struct {
		positive, negative int64
		want               float64
	}{
		{positive: 100, negative: 10, want: (100.0 / 110.0) * math.Log(111)},
		{positive: 50, negative: 5, want: (50.0 / 55.0) * math.Log(56)},
		{positive: 0, negative: 10, want: 0},
	}
	for _, tc := range tests {
		got := Score(tc.positive, tc.negative)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("score(%d,%d) = %v, want %v", tc.positive, tc.negative, got, tc.want)
		}
	}
}

func TestScoreRewardsVolume(t *testing.T) {
	// Same approval ratio, more reviews, higher score.
	if Score(1000, 100) <= Score(100, 10) {
		t.Fatalf("expected volume to raise the score at equal ratio")
	}
}
