package similarity

import (
	"movierec/internal/engine"
	"movierec/internal/types"
	"strings"
)

var groupOrder = []types.ReasonType{
	types.ReasonDirector,
	types.ReasonActors,
	types.ReasonGenres,
	types.ReasonYear,
	types.ReasonRating,
	types.ReasonDefault,
}

// Select picks up to n candidates, drawing from reason groups in priority order
// and filling what remains at random from the leftovers.
func Select(candidates []types.SimilarMovie, n int, rng *engine.Random) []types.SimilarMovie {
	if n <= 0 || len(candidates) == 0 {
		return []types.SimilarMovie{}
	}

	groups := make(map[types.ReasonType][]types.SimilarMovie)
	for _, candidate := range candidates {
		reasonType := candidate.SimilarityReason.Type
		groups[reasonType] = append(groups[reasonType], candidate)
	}

	selected := make([]types.SimilarMovie, 0, n)
	var leftovers []types.SimilarMovie
	for _, reasonType := range groupOrder {
		group := engine.Shuffled(rng, groups[reasonType])
		remaining := n - len(selected)
		take := 0
		if remaining > 0 && len(group) > 0 {
			take = slotsFor(reasonType, remaining, len(group))
		}
		selected = append(selected, group[:take]...)
		leftovers = append(leftovers, group[take:]...)
	}

	if remaining := n - len(selected); remaining > 0 && len(leftovers) > 0 {
		selected = append(selected, engine.Sample(rng, leftovers, remaining)...)
	}
	return selected
}

func slotsFor(reasonType types.ReasonType, remaining, available int) int {
	var take int
	switch reasonType {
	case types.ReasonDirector:
		take = min(2, available, remaining)
	case types.ReasonActors:
		take = min(remaining/3+1, available)
	default:
		take = min(remaining/4+1, available)
	}
	return min(max(1, take), remaining)
}

// ImageURL prefixes relative poster paths with the image base.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Describe builds the response entry for a candidate.
func Describe(
	factory *Factory,
	target, candidate types.MovieRecord,
	imageBase string,
) types.SimilarMovie {
	reason := factory.BestReason(target, candidate)
	movie := types.SimilarMovie{
		ID:               candidate.ID,
		Title:            candidate.Title,
		Image:            ImageURL(imageBase, candidate.PosterPath),
		Score:            candidate.VoteAverage,
		Genres:           candidate.Genres,
		Directors:        candidate.DirectorNames(),
		Actors:           candidate.ActorNames(),
		SimilarityReason: reason,
	}
	if year, ok := candidate.ReleaseYear(); ok {
		movie.ReleaseYear = &year
	}
	return movie
}
