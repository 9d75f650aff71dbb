package constants

import "time"

const (
	RecommendationCachePrefix = "recommendations" // Ordered recommendation list by userID (CacheBuilder adds colon)
	RecommendationCacheExpiry = 30 * time.Minute
	TopGenresCachePrefix      = "top_genres"
	TopGenresCacheExpiry      = 6 * time.Hour
)
