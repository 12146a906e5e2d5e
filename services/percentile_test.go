package services

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestPercentileRanks(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []float64
	}{
		{"three distinct", []float64{0.1, 0.5, 0.9}, []float64{33.33, 66.67, 100.0}},
		{"single score", []float64{0.42}, []float64{100.0}},
		{"two distinct", []float64{0.8, 0.2}, []float64{100.0, 50.0}},
		{"all tied", []float64{0.5, 0.5, 0.5, 0.5}, []float64{62.5, 62.5, 62.5, 62.5}},
		{"tied pair", []float64{0.1, 0.5, 0.5, 0.9}, []float64{25.0, 62.5, 62.5, 100.0}},
		{"empty", []float64{}, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentileRanks(tt.scores)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !almostEqual(got[i], tt.want[i]) {
					t.Errorf("rank[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPercentileRanksStrictlyIncreasingWithoutTies(t *testing.T) {
	scores := []float64{0.9, 0.1, 0.7, 0.3, 0.5, 0.2, 0.8}
	ranks := PercentileRanks(scores)

	for i := range scores {
		for j := range scores {
			if scores[i] < scores[j] && ranks[i] >= ranks[j] {
				t.Errorf("score %v < %v but rank %v >= %v", scores[i], scores[j], ranks[i], ranks[j])
			}
		}
	}
}

func TestPercentileRanksTiesShareRank(t *testing.T) {
	scores := []float64{0.3, 0.7, 0.3, 0.9}
	ranks := PercentileRanks(scores)

	if ranks[0] != ranks[2] {
		t.Errorf("tied scores got different ranks: %v vs %v", ranks[0], ranks[2])
	}
}

func TestPercentileRanksOrderIndependent(t *testing.T) {
	scores := []float64{0.12, 0.88, 0.5, 0.5, 0.03, 0.97, 0.42}
	base := PercentileRanks(scores)

	byScore := make(map[float64]float64, len(scores))
	for i, s := range scores {
		byScore[s] = base[i]
	}

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]float64(nil), scores...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		ranks := PercentileRanks(shuffled)
		for i, s := range shuffled {
			if ranks[i] != byScore[s] {
				t.Fatalf("trial %d: score %v ranked %v, want %v", trial, s, ranks[i], byScore[s])
			}
		}
	}
}

func TestPercentileRanksMaxIs100(t *testing.T) {
	scores := []float64{0.2, 0.9, 0.4, 0.6}
	ranks := PercentileRanks(scores)

	max := 0.0
	for _, r := range ranks {
		if r > max {
			max = r
		}
	}
	if max != 100.0 {
		t.Errorf("highest unique score should rank 100, got %v", max)
	}
}
