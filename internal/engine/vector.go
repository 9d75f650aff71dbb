package engine

import (
	"math"
	"movierec/internal/types"
	"sort"
)

// SparseVector maps a column index to a non-zero value.
type SparseVector map[int]float64

func (v SparseVector) Norm() float64 {
	var sum float64
	for _, value := range v {
		sum += value * value
	}
	return math.Sqrt(sum)
}

func (v SparseVector) Dot(other SparseVector) float64 {
	small, large := v, other
	if len(small) > len(large) {
		small, large = large, small
	}

	var sum float64
	for index, value := range small {
		if otherValue, ok := large[index]; ok {
			sum += value * otherValue
		}
	}
	return sum
}

// Cosine is 0 when either vector has zero norm.
func Cosine(a, b SparseVector) float64 {
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return a.Dot(b) / (normA * normB)
}

func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// SortScored orders by score descending, then movie id ascending.
func SortScored(scored []types.ScoredMovie) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].MovieID < scored[j].MovieID
	})
}

// TopN sorts and truncates to n.
func TopN(scored []types.ScoredMovie, n int) []types.ScoredMovie {
	SortScored(scored)
	if n >= 0 && len(scored) > n {
		return scored[:n]
	}
	return scored
}

func scoredFromMap(scores map[int]float64) []types.ScoredMovie {
	scored := make([]types.ScoredMovie, 0, len(scores))
	for movieID, score := range scores {
		scored = append(scored, types.ScoredMovie{MovieID: movieID, Score: score})
	}
	return scored
}
