package services

import (
	"math"

	"tower-anomaly-api/models"
)

// BucketScores partitions scores into `buckets` equal-width buckets over
// [0,1]. Bucket i covers [i*w, (i+1)*w); the last bucket also counts values
// equal to 1.0 so the closed top of the range is not dropped. Reported
// boundaries are rounded to 4 digits for display; membership is tested
// against the unrounded boundaries.
func BucketScores(scores []float64, buckets int) []models.ScoreBucket {
	if len(scores) == 0 {
		return []models.ScoreBucket{}
	}

	width := 1.0 / float64(buckets)
	out := make([]models.ScoreBucket, 0, buckets)

	for i := 0; i < buckets; i++ {
		start := float64(i) * width
		end := float64(i+1) * width

		count := 0
		for _, s := range scores {
			if start <= s && s < end {
				count++
			}
		}
		if i == buckets-1 {
			for _, s := range scores {
				if s == 1.0 {
					count++
				}
			}
		}

		out = append(out, models.ScoreBucket{
			BucketStart: round4(start),
			BucketEnd:   round4(end),
			Count:       count,
		})
	}

	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
