package models

const (
	MinGenrePreference = 0.5
	MaxGenrePreference = 10.0
)

type GenrePreference struct {
	BaseRecordModel
	UserID          int     `gorm:"type:int;not null;uniqueIndex:idx_user_genre" json:"userId"`
	GenreName       string  `gorm:"type:text;not null;uniqueIndex:idx_user_genre" json:"genreName"`
	PreferenceScore float64 `gorm:"type:double precision;not null"               json:"preferenceScore"`
}

func (GenrePreference) TableName() string {
	return "user_genre_preferences"
}

// ClampGenrePreference bounds a score to the stored preference range.
func ClampGenrePreference(score float64) float64 {
	if score < MinGenrePreference {
		return MinGenrePreference
	}
	if score > MaxGenrePreference {
		return MaxGenrePreference
	}
	return score
}
