package engine

import (
	"math"
	"movierec/internal/models"
)

const (
	genreCountBonus     = 0.3
	incrementalKeep     = 0.8
	incrementalNewShare = 0.2
)

// GenreAffinity rewards both high ratings and repeated exposure to a genre.
func GenreAffinity(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, rating := range ratings {
		sum += rating
	}
	avg := sum / float64(len(ratings))
	return avg * (1 + genreCountBonus*math.Log(1+float64(len(ratings))))
}

// NormalizeGenreScores rescales to [0, 10] then clamps to the stored range.
// When every score is equal the raw values are kept before clamping.
func NormalizeGenreScores(scores map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return normalized
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, score := range scores {
		lo = math.Min(lo, score)
		hi = math.Max(hi, score)
	}

	for genre, score := range scores {
		if hi > lo {
			score = (score - lo) / (hi - lo) * models.MaxGenrePreference
		}
		normalized[genre] = models.ClampGenrePreference(score)
	}
	return normalized
}

// IncrementalGenrePreference blends a new rating into an existing preference.
func IncrementalGenrePreference(current float64, rating float64) float64 {
	return models.ClampGenrePreference(incrementalKeep*current + incrementalNewShare*rating)
}
