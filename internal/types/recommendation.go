package types

import "time"

// PersonRef is a credited person, kept in billing order for cast lists.
type PersonRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RatingEvent is the normalized rating row consumed by the engines.
type RatingEvent struct {
	UserID      int        `json:"userId"`
	MovieID     int        `json:"movieId"`
	Rating      float64    `json:"rating"`
	Comment     string     `json:"comment,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Title       string     `json:"title"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
}

// MovieRecord is the normalized catalog row consumed by the engines.
type MovieRecord struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Genres      []string    `json:"genres"`
	Directors   []PersonRef `json:"directors"`
	Actors      []PersonRef `json:"actors"`
	ReleaseDate *time.Time  `json:"releaseDate,omitempty"`
	VoteAverage float64     `json:"voteAverage"`
	VoteCount   int         `json:"voteCount"`
	Popularity  float64     `json:"popularity"`
	Overview    string      `json:"overview,omitempty"`
	PosterPath  string      `json:"posterPath,omitempty"`
}

func (m MovieRecord) ReleaseYear() (int, bool) {
	if m.ReleaseDate == nil || m.ReleaseDate.IsZero() {
		return 0, false
	}
	return m.ReleaseDate.Year(), true
}

func (m MovieRecord) DirectorNames() []string {
	return personNames(m.Directors)
}

func (m MovieRecord) ActorNames() []string {
	return personNames(m.Actors)
}

func personNames(people []PersonRef) []string {
	names := make([]string, 0, len(people))
	for _, person := range people {
		if person.Name != "" {
			names = append(names, person.Name)
		}
	}
	return names
}

type ScoredMovie struct {
	MovieID int     `json:"movieId"`
	Score   float64 `json:"score"`
}

func MovieIDs(scored []ScoredMovie) []int {
	ids := make([]int, len(scored))
	for i, movie := range scored {
		ids[i] = movie.MovieID
	}
	return ids
}

type ReasonType string

const (
	ReasonDirector ReasonType = "director"
	ReasonActors   ReasonType = "actors"
	ReasonGenres   ReasonType = "genres"
	ReasonYear     ReasonType = "year"
	ReasonRating   ReasonType = "rating"
	ReasonDefault  ReasonType = "default"
)

// SimilarityReason explains why a candidate is similar to a target movie.
type SimilarityReason struct {
	Type        ReasonType `json:"type"`
	Reason      string     `json:"reason"`
	CommonIDs   []int      `json:"commonIds,omitempty"`
	CommonNames []string   `json:"commonNames,omitempty"`
	YearDiff    *int       `json:"yearDiff,omitempty"`
	Score       *float64   `json:"score,omitempty"`
}

type SimilarMovie struct {
	ID               int              `json:"id"`
	Title            string           `json:"title"`
	Image            string           `json:"image"`
	Score            float64          `json:"score"`
	ReleaseYear      *int             `json:"releaseYear,omitempty"`
	Genres           []string         `json:"genres"`
	Directors        []string         `json:"directors"`
	Actors           []string         `json:"actors"`
	SimilarityReason SimilarityReason `json:"similarityReason"`
}

type ActionType string

const (
	ActionView    ActionType = "view"
	ActionSearch  ActionType = "search"
	ActionRate    ActionType = "rate"
	ActionComment ActionType = "comment"
	ActionLike    ActionType = "like"
)

// PopularityAggregate is one movie's trailing-window activity used by the batch recompute.
type PopularityAggregate struct {
	MovieID            int        `json:"movieId"`
	BasePopularity     float64    `json:"basePopularity"`
	LastInteraction    *time.Time `json:"lastInteraction,omitempty"`
	RecentRatingCount  int        `json:"recentRatingCount"`
	RecentAvgRating    float64    `json:"recentAvgRating"`
	RecentWatchCount   int        `json:"recentWatchCount"`
	RecentCommentCount int        `json:"recentCommentCount"`
	RecentLikeCount    int        `json:"recentLikeCount"`
}

type DeclaredPreferences struct {
	Genres    []string `json:"genres"`
	Directors []string `json:"directors"`
	Actors    []string `json:"actors"`
}
