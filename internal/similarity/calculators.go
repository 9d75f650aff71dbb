package similarity

import (
	"fmt"
	"movierec/internal/types"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	NearbyYearWindow  = 2
	shownActorNames   = 2
	defaultReasonText = "Recommended for you"
)

// Calculator produces a reason when its criterion holds, or nil.
type Calculator interface {
	Type() types.ReasonType
	Priority() int
	Calculate(target, candidate types.MovieRecord) *types.SimilarityReason
}

type directorCalculator struct{}

func (directorCalculator) Type() types.ReasonType { return types.ReasonDirector }
func (directorCalculator) Priority() int          { return 1 }

func (directorCalculator) Calculate(target, candidate types.MovieRecord) *types.SimilarityReason {
	ids, names := commonPeople(target.Directors, candidate.Directors)
	if len(names) == 0 {
		return nil
	}
	return &types.SimilarityReason{
		Type:        types.ReasonDirector,
		Reason:      "Same director: " + strings.Join(names, ", "),
		CommonIDs:   ids,
		CommonNames: names,
	}
}

type actorCalculator struct{}

func (actorCalculator) Type() types.ReasonType { return types.ReasonActors }
func (actorCalculator) Priority() int          { return 2 }

func (actorCalculator) Calculate(target, candidate types.MovieRecord) *types.SimilarityReason {
	ids, names := commonPeople(target.Actors, candidate.Actors)
	if len(names) == 0 {
		return nil
	}

	shown := names
	suffix := ""
	if len(names) > shownActorNames {
		shown = names[:shownActorNames]
		suffix = " and more"
	}
	return &types.SimilarityReason{
		Type:        types.ReasonActors,
		Reason:      "Similar cast: " + strings.Join(shown, ", ") + suffix,
		CommonIDs:   ids,
		CommonNames: names,
	}
}

type genreCalculator struct{}

func (genreCalculator) Type() types.ReasonType { return types.ReasonGenres }
func (genreCalculator) Priority() int          { return 3 }

func (genreCalculator) Calculate(target, candidate types.MovieRecord) *types.SimilarityReason {
	candidateGenres := mapset.NewThreadUnsafeSet(candidate.Genres...)
	common := make([]string, 0, len(target.Genres))
	for _, genre := range target.Genres {
		if candidateGenres.Contains(genre) && !containsFold(common, genre) {
			common = append(common, genre)
		}
	}
	if len(common) == 0 {
		return nil
	}
	return &types.SimilarityReason{
		Type:        types.ReasonGenres,
		Reason:      "Similar genres: " + strings.Join(common, ", "),
		CommonNames: common,
	}
}

type yearCalculator struct{}

func (yearCalculator) Type() types.ReasonType { return types.ReasonYear }
func (yearCalculator) Priority() int          { return 4 }

func (yearCalculator) Calculate(target, candidate types.MovieRecord) *types.SimilarityReason {
	targetYear, ok := target.ReleaseYear()
	if !ok {
		return nil
	}
	candidateYear, ok := candidate.ReleaseYear()
	if !ok {
		return nil
	}

	diff := candidateYear - targetYear
	if diff < -NearbyYearWindow || diff > NearbyYearWindow {
		return nil
	}

	reason := fmt.Sprintf("Released in a nearby year (%d)", candidateYear)
	if diff == 0 {
		reason = fmt.Sprintf("Released the same year (%d)", candidateYear)
	}
	return &types.SimilarityReason{Type: types.ReasonYear, Reason: reason, YearDiff: &diff}
}

type ratingCalculator struct{}

func (ratingCalculator) Type() types.ReasonType { return types.ReasonRating }
func (ratingCalculator) Priority() int          { return 999 }

func (ratingCalculator) Calculate(_, candidate types.MovieRecord) *types.SimilarityReason {
	score := candidate.VoteAverage
	return &types.SimilarityReason{
		Type:   types.ReasonRating,
		Reason: fmt.Sprintf("Well-rated film (rated %.1f)", score),
		Score:  &score,
	}
}

// commonPeople intersects by id first and falls back to case-insensitive names.
func commonPeople(target, candidate []types.PersonRef) ([]int, []string) {
	candidateIDs := mapset.NewThreadUnsafeSet[int]()
	for _, person := range candidate {
		if person.ID != 0 {
			candidateIDs.Add(person.ID)
		}
	}

	var ids []int
	var names []string
	for _, person := range target {
		if person.ID != 0 && candidateIDs.Contains(person.ID) && !containsInt(ids, person.ID) {
			ids = append(ids, person.ID)
			names = append(names, person.Name)
		}
	}
	if len(ids) > 0 {
		return ids, names
	}

	candidateNames := mapset.NewThreadUnsafeSet[string]()
	for _, person := range candidate {
		if name := strings.ToLower(strings.TrimSpace(person.Name)); name != "" {
			candidateNames.Add(name)
		}
	}
	for _, person := range target {
		name := strings.TrimSpace(person.Name)
		if name != "" && candidateNames.Contains(strings.ToLower(name)) && !containsFold(names, name) {
			names = append(names, name)
		}
	}
	return nil, names
}

func containsInt(values []int, target int) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

func sortByPriority(calculators []Calculator) {
	sort.SliceStable(calculators, func(i, j int) bool {
		return calculators[i].Priority() < calculators[j].Priority()
	})
}
