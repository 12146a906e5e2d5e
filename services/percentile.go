package services

import "sort"

// PercentileRanks assigns each score its percentile rank within the batch
// using the average-rank method: tied values receive the mean of their tied
// 1-based rank positions, and percentile = rank / N * 100. The result is
// order-independent for a fixed multiset; a single score ranks at 100.
func PercentileRanks(scores []float64) []float64 {
	n := len(scores)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})

	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[idx[j+1]] == scores[idx[i]] {
			j++
		}
		// Mean of the 1-based ranks i+1..j+1 held by this tie group.
		rank := float64(i+j+2) / 2
		pct := rank / float64(n) * 100
		for k := i; k <= j; k++ {
			out[idx[k]] = pct
		}
		i = j + 1
	}

	return out
}
