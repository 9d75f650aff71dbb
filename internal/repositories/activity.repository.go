package repositories

import (
	"context"
	"movierec/internal/models"
	"movierec/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const popularityAggregateQuery = `
WITH recent_ratings AS (
	SELECT movie_id, COUNT(*) AS rating_count, AVG(rating)::float8 AS avg_rating
	FROM ratings
	WHERE created_at >= @since
	GROUP BY movie_id
),
recent_watches AS (
	SELECT movie_id, COUNT(*) AS watch_count
	FROM watch_history
	WHERE watched_at >= @since
	GROUP BY movie_id
),
recent_comments AS (
	SELECT movie_id, COUNT(*) AS comment_count
	FROM comments
	WHERE created_at >= @since
	GROUP BY movie_id
),
recent_likes AS (
	SELECT r.movie_id, COUNT(*) AS like_count
	FROM comment_likes cl
	JOIN ratings r ON r.id = cl.rating_id
	WHERE cl.created_at >= @since
	GROUP BY r.movie_id
),
last_interactions AS (
	SELECT movie_id, MAX(at) AS last_at FROM (
		SELECT movie_id, created_at AS at FROM ratings
		UNION ALL
		SELECT movie_id, watched_at AS at FROM watch_history
		UNION ALL
		SELECT movie_id, created_at AS at FROM comments
		UNION ALL
		SELECT r.movie_id, cl.created_at AS at
		FROM comment_likes cl
		JOIN ratings r ON r.id = cl.rating_id
	) interactions
	GROUP BY movie_id
)
SELECT
	m.id AS movie_id,
	COALESCE(m.popularity, 0) AS base_popularity,
	COALESCE(li.last_at, m.created_at) AS last_interaction,
	COALESCE(rr.rating_count, 0) AS recent_rating_count,
	COALESCE(rr.avg_rating, 0) AS recent_avg_rating,
	COALESCE(rw.watch_count, 0) AS recent_watch_count,
	COALESCE(rc.comment_count, 0) AS recent_comment_count,
	COALESCE(rl.like_count, 0) AS recent_like_count
FROM movies m
LEFT JOIN recent_ratings rr ON rr.movie_id = m.id
LEFT JOIN recent_watches rw ON rw.movie_id = m.id
LEFT JOIN recent_comments rc ON rc.movie_id = m.id
LEFT JOIN recent_likes rl ON rl.movie_id = m.id
LEFT JOIN last_interactions li ON li.movie_id = m.id
WHERE m.deleted_at IS NULL
ORDER BY m.id`

type ActivityRepository interface {
	GetPopularityAggregates(ctx context.Context, tx *gorm.DB, since time.Time) ([]types.PopularityAggregate, error)
	RecordWatch(ctx context.Context, tx *gorm.DB, userID int, movieID int, watchedAt time.Time) error
}

type activityRepository struct {
	log logger.Logger
}

func NewActivityRepository() ActivityRepository {
	return &activityRepository{
		log: logger.New("activityRepository"),
	}
}

func (r *activityRepository) GetPopularityAggregates(
	ctx context.Context,
	tx *gorm.DB,
	since time.Time,
) ([]types.PopularityAggregate, error) {
	log := r.log.Function("GetPopularityAggregates")

	var aggregates []types.PopularityAggregate
	err := tx.WithContext(ctx).
		Raw(popularityAggregateQuery, map[string]any{"since": since}).
		Scan(&aggregates).Error
	if err != nil {
		return nil, log.Err("failed to aggregate movie activity", err, "since", since)
	}

	return aggregates, nil
}

func (r *activityRepository) RecordWatch(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
	movieID int,
	watchedAt time.Time,
) error {
	entry := models.WatchHistory{UserID: userID, MovieID: movieID, WatchedAt: watchedAt}
	if err := gorm.G[models.WatchHistory](tx).Create(ctx, &entry); err != nil {
		return r.log.Function("RecordWatch").
			Err("failed to record watch", err, "userID", userID, "movieID", movieID)
	}
	return nil
}
