package engine

import (
	"math"
	"movierec/internal/types"
)

const (
	UserCFNeighbors  = 10
	userCFJitter     = 0.5
	maxGenreBoost    = 0.2
	neutralGenreBias = 5.0
)

// UserCFResult carries NoModel when the user or the rating matrix is absent.
type UserCFResult struct {
	Scored  []types.ScoredMovie
	NoModel bool
}

// UserCF scores unrated movies by the mean rating of the nearest neighbours.
// genrePrefs holds the user's top genre preference scores.
func UserCF(s *Snapshot, userID int, n int, genrePrefs map[string]float64, rng *Random) UserCFResult {
	if !s.HasRatings() {
		return UserCFResult{NoModel: true}
	}
	row, ok := s.userRows[userID]
	if !ok {
		return UserCFResult{NoModel: true}
	}

	rated := s.matrix[row]
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, neighbor := range s.nearestUsers(row, UserCFNeighbors) {
		for col, value := range s.matrix[neighbor.row] {
			if _, seen := rated[col]; seen {
				continue
			}
			sums[col] += value
			counts[col]++
		}
	}

	scores := make(map[int]float64, len(sums))
	for col, sum := range sums {
		scores[s.movieIDs[col]] = sum / float64(counts[col])
	}
	candidates := TopN(scoredFromMap(scores), 2*n)

	for i := range candidates {
		movie, _ := s.Movie(candidates[i].MovieID)
		boost := GenreBoost(movie.Genres, genrePrefs)
		candidates[i].Score = candidates[i].Score*(1+boost) + rng.Normal(userCFJitter)
	}

	return UserCFResult{Scored: TopN(candidates, n)}
}

// GenreBoost averages max(0, (pref-5)/5) over matched genres, capped at 0.2.
func GenreBoost(genres []string, genrePrefs map[string]float64) float64 {
	var total float64
	var matched int
	for _, genre := range genres {
		pref, ok := genrePrefs[genre]
		if !ok {
			continue
		}
		total += math.Max(0, (pref-neutralGenreBias)/neutralGenreBias)
		matched++
	}
	if matched == 0 {
		return 0
	}
	return math.Min(maxGenreBoost, total/float64(matched))
}
