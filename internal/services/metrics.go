package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_snapshot_loads_total",
			Help: "Snapshot loads by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_snapshot_load_duration_seconds",
			Help:    "Duration of snapshot loads in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	SnapshotSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommender_snapshot_size",
			Help: "Rows held by the current snapshot",
		},
		[]string{"kind"},
	)

	RecommendationsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_recommendations_total",
			Help: "Recommendation requests by the path that produced them",
		},
		[]string{"path"},
	)

	EngineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_engine_duration_seconds",
			Help:    "Duration of individual recommendation engines",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	PopularityUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_popularity_updates_total",
			Help: "Realtime popularity updates by outcome",
		},
		[]string{"outcome"},
	)

	PopularityBatchMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_popularity_batch_movies",
			Help: "Movies updated by the last batch popularity recompute",
		},
	)
)
