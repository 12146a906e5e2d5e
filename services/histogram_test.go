package services

import (
	"math/rand"
	"testing"
)

func TestBucketScoresScenario(t *testing.T) {
	buckets := BucketScores([]float64{0.2, 0.7, 1.0}, 2)

	if len(buckets) != 2 {
		t.Fatalf("len = %d, want 2", len(buckets))
	}
	if buckets[0].BucketStart != 0 || buckets[0].BucketEnd != 0.5 || buckets[0].Count != 1 {
		t.Errorf("bucket[0] = %+v, want {0, 0.5, 1}", buckets[0])
	}
	if buckets[1].BucketStart != 0.5 || buckets[1].BucketEnd != 1.0 || buckets[1].Count != 2 {
		t.Errorf("bucket[1] = %+v, want {0.5, 1.0, 2}", buckets[1])
	}
}

func TestBucketScoresEmpty(t *testing.T) {
	buckets := BucketScores(nil, 20)
	if len(buckets) != 0 {
		t.Errorf("expected empty distribution, got %d buckets", len(buckets))
	}
}

func TestBucketScoresTopValueInLastBucket(t *testing.T) {
	buckets := BucketScores([]float64{1.0, 1.0}, 10)

	last := buckets[len(buckets)-1]
	if last.Count != 2 {
		t.Errorf("last bucket count = %d, want 2", last.Count)
	}
	for _, b := range buckets[:len(buckets)-1] {
		if b.Count != 0 {
			t.Errorf("bucket %+v should be empty", b)
		}
	}
}

func TestBucketScoresCountsSumToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scores := make([]float64, 500)
	for i := range scores {
		scores[i] = rng.Float64()
	}
	// Include both edges.
	scores = append(scores, 0.0, 1.0)

	for _, n := range []int{5, 7, 20, 33, 100} {
		buckets := BucketScores(scores, n)
		if len(buckets) != n {
			t.Fatalf("buckets=%d: len = %d", n, len(buckets))
		}
		total := 0
		for _, b := range buckets {
			total += b.Count
		}
		if total != len(scores) {
			t.Errorf("buckets=%d: counts sum to %d, want %d", n, total, len(scores))
		}
	}
}

func TestBucketScoresBoundariesRounded(t *testing.T) {
	buckets := BucketScores([]float64{0.5}, 3)

	if buckets[1].BucketStart != 0.3333 {
		t.Errorf("bucket[1].BucketStart = %v, want 0.3333", buckets[1].BucketStart)
	}
	if buckets[1].BucketEnd != 0.6667 {
		t.Errorf("bucket[1].BucketEnd = %v, want 0.6667", buckets[1].BucketEnd)
	}
	// Rounding is display-only: 0.5 still lands in the middle bucket.
	if buckets[1].Count != 1 {
		t.Errorf("bucket[1].Count = %d, want 1", buckets[1].Count)
	}
}
