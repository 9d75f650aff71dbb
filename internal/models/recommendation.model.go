package models

type RecommendationType string

const (
	RecommendationTypeHybrid    RecommendationType = "hybrid"
	RecommendationTypeKnowledge RecommendationType = "knowledge"
	RecommendationTypePopular   RecommendationType = "popular"
)

type RecommendationCacheEntry struct {
	BaseRecordModel
	UserID             int                `gorm:"type:int;not null;uniqueIndex:idx_recommendation_user_movie;index" json:"userId"`
	MovieID            int                `gorm:"type:int;not null;uniqueIndex:idx_recommendation_user_movie"       json:"movieId"`
	Score              float64            `gorm:"type:double precision;not null;default:0"                          json:"score"`
	RecommendationType RecommendationType `gorm:"type:text;not null"                                                json:"recommendationType"`
}

func (RecommendationCacheEntry) TableName() string {
	return "recommendations"
}
