package engine

import (
	"math"
	"movierec/internal/types"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	knowledgeJitter     = 0.5
	metadataJitter      = 0.1
	defaultVoteAverage  = 5.0
	missingReleaseDecay = 0.5
	declaredPersonBoost = 0.1
	maxDeclaredBoost    = 0.2
)

// RecencyDecay is 1/(1+0.1*age in years); a missing release date decays to 0.5.
func RecencyDecay(movie types.MovieRecord, now time.Time) float64 {
	year, ok := movie.ReleaseYear()
	if !ok {
		return missingReleaseDecay
	}
	return 1 / (1 + 0.1*float64(now.Year()-year))
}

func voteAverageOrDefault(movie types.MovieRecord) float64 {
	if movie.VoteAverage == 0 {
		return defaultVoteAverage
	}
	return movie.VoteAverage
}

// GenrePreferenceScore ranks candidates for a user with known genre tastes.
func GenrePreferenceScore(movie types.MovieRecord, now time.Time, rng *Random) float64 {
	base := 0.6*voteAverageOrDefault(movie) + 0.2*movie.Popularity
	return base*RecencyDecay(movie, now) + rng.Normal(knowledgeJitter)
}

// NewUserScore ranks candidates for a user with no signal at all.
func NewUserScore(movie types.MovieRecord, now time.Time, rng *Random) float64 {
	base := 0.4*voteAverageOrDefault(movie) + 0.4*movie.Popularity
	return base*RecencyDecay(movie, now) + rng.Normal(knowledgeJitter)
}

// DeclaredPeopleBoost adds 0.1 per credited director or actor the user named
// during onboarding, capped at 0.2. Names match case-insensitively.
func DeclaredPeopleBoost(movie types.MovieRecord, directors, actors []string) float64 {
	if len(directors) == 0 && len(actors) == 0 {
		return 0
	}

	var matches int
	matches += countNamed(movie.Directors, lowerSet(directors))
	matches += countNamed(movie.Actors, lowerSet(actors))
	return math.Min(maxDeclaredBoost, declaredPersonBoost*float64(matches))
}

func lowerSet(names []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			set.Add(name)
		}
	}
	return set
}

func countNamed(people []types.PersonRef, names mapset.Set[string]) int {
	var count int
	for _, person := range people {
		if names.Contains(strings.ToLower(person.Name)) {
			count++
		}
	}
	return count
}

// ScoreCandidates applies score to each movie, samples down to n, and sorts.
func ScoreCandidates(
	movies []types.MovieRecord,
	n int,
	score func(types.MovieRecord) float64,
	rng *Random,
) []types.ScoredMovie {
	scored := make([]types.ScoredMovie, 0, len(movies))
	for _, movie := range movies {
		scored = append(scored, types.ScoredMovie{MovieID: movie.ID, Score: score(movie)})
	}
	scored = Sample(rng, scored, n)
	SortScored(scored)
	return scored
}

// MetadataScore weights the first genre, director, and lead actor matches by vote average.
func MetadataScore(target, candidate types.MovieRecord) float64 {
	var match float64
	if len(target.Genres) > 0 && containsString(candidate.Genres, target.Genres[0]) {
		match += 0.4
	}
	if len(target.Directors) > 0 && containsPerson(candidate.Directors, target.Directors[0]) {
		match += 0.3
	}
	if len(target.Actors) > 0 && containsPerson(candidate.Actors, target.Actors[0]) {
		match += 0.3
	}
	return match * candidate.VoteAverage
}

// SimilarByMetadata ranks candidates against the target and samples n of the top 2n.
func SimilarByMetadata(
	target types.MovieRecord,
	candidates []types.MovieRecord,
	n int,
	rng *Random,
) []types.ScoredMovie {
	scored := make([]types.ScoredMovie, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == target.ID {
			continue
		}
		scored = append(scored, types.ScoredMovie{MovieID: candidate.ID, Score: MetadataScore(target, candidate)})
	}
	top := TopN(scored, 2*n)
	for i := range top {
		top[i].Score += rng.Normal(metadataJitter)
	}
	top = Sample(rng, top, n)
	SortScored(top)
	return top
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func containsPerson(people []types.PersonRef, target types.PersonRef) bool {
	for _, person := range people {
		if person.ID == target.ID {
			return true
		}
	}
	return false
}
