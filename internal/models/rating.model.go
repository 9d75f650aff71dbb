package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	MinRating = decimal.NewFromFloat(0.5)
	MaxRating = decimal.NewFromInt(10)

	ErrInvalidRating = errors.New("rating must be between 0.5 and 10 in half point steps")
)

type Rating struct {
	BaseRecordModel
	UserID  int             `gorm:"type:int;not null;uniqueIndex:idx_rating_user_movie;index" json:"userId"`
	MovieID int             `gorm:"type:int;not null;uniqueIndex:idx_rating_user_movie;index" json:"movieId"`
	Value   decimal.Decimal `gorm:"column:rating;type:numeric(3,1);not null"                  json:"rating"`
	Comment *string         `gorm:"type:text"                                                 json:"comment,omitempty"`
	Movie   Movie           `gorm:"foreignKey:MovieID"                                        json:"-"`
}

// ValidRating reports whether value sits on the half point grid between 0.5 and 10.
func ValidRating(value decimal.Decimal) bool {
	if value.LessThan(MinRating) || value.GreaterThan(MaxRating) {
		return false
	}

	return value.Mul(decimal.NewFromInt(2)).IsInteger()
}

func (r *Rating) BeforeSave(tx *gorm.DB) error {
	if !ValidRating(r.Value) {
		return ErrInvalidRating
	}
	return nil
}

type WatchHistory struct {
	BaseRecordModel
	UserID    int       `gorm:"type:int;not null;index"  json:"userId"`
	MovieID   int       `gorm:"type:int;not null;index"  json:"movieId"`
	WatchedAt time.Time `gorm:"not null;index"           json:"watchedAt"`
}

func (WatchHistory) TableName() string {
	return "watch_history"
}

type Comment struct {
	BaseRecordModel
	UserID  int    `gorm:"type:int;not null;index" json:"userId"`
	MovieID int    `gorm:"type:int;not null;index" json:"movieId"`
	Content string `gorm:"type:text;not null"      json:"content"`
}

type CommentLike struct {
	BaseRecordModel
	UserID   int `gorm:"type:int;not null;uniqueIndex:idx_comment_like_user_rating" json:"userId"`
	RatingID int `gorm:"type:int;not null;uniqueIndex:idx_comment_like_user_rating" json:"ratingId"`
}
