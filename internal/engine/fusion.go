package engine

import (
	"movierec/internal/types"

	mapset "github.com/deckarep/golang-set/v2"
)

type FusionWeights struct {
	UserCF  float64
	ItemCF  float64
	Content float64
}

func DefaultFusionWeights() FusionWeights {
	return FusionWeights{UserCF: 0.4, ItemCF: 0.3, Content: 0.3}
}

// Fuse adds weighted engine scores; a movie missing from an engine gets 0 from it.
// Rated movies are dropped.
func Fuse(
	weights FusionWeights,
	userCF, itemCF, content []types.ScoredMovie,
	rated mapset.Set[int],
) []types.ScoredMovie {
	combined := make(map[int]float64)
	add := func(scored []types.ScoredMovie, weight float64) {
		for _, movie := range scored {
			combined[movie.MovieID] += movie.Score * weight
		}
	}
	add(userCF, weights.UserCF)
	add(itemCF, weights.ItemCF)
	add(content, weights.Content)

	if rated != nil {
		for movieID := range combined {
			if rated.Contains(movieID) {
				delete(combined, movieID)
			}
		}
	}

	fused := scoredFromMap(combined)
	SortScored(fused)
	return fused
}
