package models

import (
	"strings"
	"time"
)

const DirectorJob = "Director"

type Movie struct {
	BaseModel
	Title            string      `gorm:"type:text;not null;index"              json:"title"`
	OriginalTitle    string      `gorm:"type:text"                             json:"originalTitle,omitempty"`
	Overview         string      `gorm:"type:text"                             json:"overview,omitempty"`
	PosterPath       string      `gorm:"type:text"                             json:"posterPath,omitempty"`
	BackdropPath     string      `gorm:"type:text"                             json:"backdropPath,omitempty"`
	ReleaseDate      *time.Time  `gorm:"type:date;index"                       json:"releaseDate,omitempty"`
	Popularity       float64     `gorm:"type:double precision;not null;default:0;index" json:"popularity"`
	VoteAverage      float64     `gorm:"type:double precision;not null;default:0" json:"voteAverage"`
	VoteCount        int         `gorm:"type:int;not null;default:0"           json:"voteCount"`
	OriginalLanguage string      `gorm:"type:text"                             json:"originalLanguage,omitempty"`
	Genres           string      `gorm:"type:text"                             json:"genres"`
	Cast             []MovieCast `gorm:"foreignKey:MovieID"                    json:"cast,omitempty"`
	Crew             []MovieCrew `gorm:"foreignKey:MovieID"                    json:"crew,omitempty"`
}

// GenreList splits the comma-joined genre column, dropping blanks.
func (m Movie) GenreList() []string {
	if m.Genres == "" {
		return []string{}
	}

	parts := strings.Split(m.Genres, ",")
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		if genre := strings.TrimSpace(part); genre != "" {
			genres = append(genres, genre)
		}
	}

	return genres
}

type Person struct {
	BaseModel
	Name        string `gorm:"type:text;not null;index" json:"name"`
	ProfilePath string `gorm:"type:text"                json:"profilePath,omitempty"`
}

type MovieCast struct {
	BaseRecordModel
	MovieID   int    `gorm:"type:int;not null;index:idx_movie_cast_order" json:"movieId"`
	PersonID  int    `gorm:"type:int;not null;index"                      json:"personId"`
	Person    Person `gorm:"foreignKey:PersonID"                          json:"person"`
	Character string `gorm:"type:text"                                    json:"character,omitempty"`
	CastOrder int    `gorm:"type:int;not null;index:idx_movie_cast_order" json:"castOrder"`
}

func (MovieCast) TableName() string {
	return "movie_cast"
}

type MovieCrew struct {
	BaseRecordModel
	MovieID    int    `gorm:"type:int;not null;index:idx_movie_crew_job" json:"movieId"`
	PersonID   int    `gorm:"type:int;not null;index"                    json:"personId"`
	Person     Person `gorm:"foreignKey:PersonID"                        json:"person"`
	Job        string `gorm:"type:text;not null;index:idx_movie_crew_job" json:"job"`
	Department string `gorm:"type:text"                                  json:"department,omitempty"`
}

func (MovieCrew) TableName() string {
	return "movie_crew"
}
