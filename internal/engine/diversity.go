package engine

import "movierec/internal/types"

const (
	MaxPerDirector = 2
	MaxPerActor    = 3
	MaxPerGenre    = 4
)

// Diversify walks candidates by descending score and skips any that would push a
// director, actor, or genre past its cap. It does not backfill.
func Diversify(
	candidates []types.ScoredMovie,
	lookup func(movieID int) (types.MovieRecord, bool),
	n int,
) []types.ScoredMovie {
	ordered := append([]types.ScoredMovie(nil), candidates...)
	SortScored(ordered)

	directors := make(map[string]int)
	actors := make(map[string]int)
	genres := make(map[string]int)

	selected := make([]types.ScoredMovie, 0, n)
	for _, candidate := range ordered {
		if len(selected) >= n {
			break
		}
		movie, ok := lookup(candidate.MovieID)
		if ok && (exceeds(directors, movie.DirectorNames(), MaxPerDirector) ||
			exceeds(actors, movie.ActorNames(), MaxPerActor) ||
			exceeds(genres, movie.Genres, MaxPerGenre)) {
			continue
		}
		if ok {
			increment(directors, movie.DirectorNames())
			increment(actors, movie.ActorNames())
			increment(genres, movie.Genres)
		}
		selected = append(selected, candidate)
	}
	return selected
}

func exceeds(counts map[string]int, keys []string, limit int) bool {
	for _, key := range keys {
		if counts[key] >= limit {
			return true
		}
	}
	return false
}

func increment(counts map[string]int, keys []string) {
	for _, key := range keys {
		counts[key]++
	}
}
