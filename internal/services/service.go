package services

import (
	"movierec/config"
	"movierec/internal/database"
	"movierec/internal/engine"
	"movierec/internal/events"
	"movierec/internal/repositories"
	"time"
)

type Service struct {
	Transaction     *TransactionService
	Scheduler       *SchedulerService
	Snapshot        *SnapshotService
	Popular         *PopularService
	Knowledge       *KnowledgeService
	GenrePreference *GenrePreferenceService
	Popularity      *PopularityService
	Recommendation  *RecommendationService
	SimilarMovies   *SimilarMoviesService
	MovieActions    *MovieActionService
	Rating          *RatingService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	repos := repositories.New(db)
	rng := engine.NewRandom(config.RandomSeed)

	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	snapshotService := NewSnapshotService(db, repos, time.Duration(config.StalenessMinutes)*time.Minute)
	popularService := NewPopularService(db, repos, rng)
	knowledgeService := NewKnowledgeService(db, repos, rng)
	genrePreferenceService := NewGenrePreferenceService(db, repos, transactionService)
	popularityService := NewPopularityService(
		db,
		repos,
		transactionService,
		config.PopularityLockTimeout,
		config.PopularityApplyPenalty,
	)
	recommendationService := NewRecommendationService(
		db,
		repos,
		snapshotService,
		knowledgeService,
		popularService,
		genrePreferenceService,
		rng,
		RecommendationOptions{
			Weights: engine.FusionWeights{
				UserCF:  config.UserCFWeight,
				ItemCF:  config.ItemCFWeight,
				Content: config.ContentWeight,
			},
			RandomFactor: config.RandomFactor,
		},
	)
	similarMoviesService := NewSimilarMoviesService(db, repos, snapshotService, rng, config.TMDBImageBaseURL)
	movieActionService := NewMovieActionService(eventBus, popularityService, genrePreferenceService)
	ratingService := NewRatingService(db, repos, movieActionService)

	if err := movieActionService.RegisterHandlers(); err != nil {
		return Service{}, err
	}
	if err := snapshotService.RegisterReloadHandler(eventBus); err != nil {
		return Service{}, err
	}

	return Service{
		Transaction:     transactionService,
		Scheduler:       schedulerService,
		Snapshot:        snapshotService,
		Popular:         popularService,
		Knowledge:       knowledgeService,
		GenrePreference: genrePreferenceService,
		Popularity:      popularityService,
		Recommendation:  recommendationService,
		SimilarMovies:   similarMoviesService,
		MovieActions:    movieActionService,
		Rating:          ratingService,
	}, nil
}
