package util

import (
	"math/rand"
	"testing"
)

func TestPickWeightedRespectsZeroWeights(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if got := PickWeighted(r, []int{0, 5, 0}); got != 1 {
			t.Fatalf("picked index %d with only index 1 weighted", got)
		}
	}
}

func TestPickWeightedAllZeroFallsBackToUniform(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[PickWeighted(r, []int{0, 0, 0})] = true
	}
	if len(seen) != 3 {
		t.Fatalf("uniform fallback covered %d of 3 indices", len(seen))
	}
}

func TestChanceBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	if Chance(r, 0) {
		t.Fatal("0 percent fired")
	}
	if !Chance(r, 100) {
		t.Fatal("100 percent did not fire")
	}
}
