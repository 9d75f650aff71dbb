package seed

import (
	"movierec/config"
	"time"

	. "movierec/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedMovie struct {
	title       string
	year        int
	genres      string
	voteAverage float64
	voteCount   int
	popularity  float64
	director    string
	cast        []string
}

var catalog = []seedMovie{
	{"Heat", 1995, "Action, Crime, Drama", 7.9, 6800, 45.2, "Michael Mann", []string{"Al Pacino", "Robert De Niro", "Val Kilmer"}},
	{"Collateral", 2004, "Action, Crime, Thriller", 7.3, 5900, 30.1, "Michael Mann", []string{"Tom Cruise", "Jamie Foxx", "Jada Pinkett Smith"}},
	{"The Insider", 1999, "Drama, Thriller", 7.4, 1800, 15.8, "Michael Mann", []string{"Al Pacino", "Russell Crowe", "Christopher Plummer"}},
	{"Inception", 2010, "Action, Science Fiction, Adventure", 8.4, 35000, 92.5, "Christopher Nolan", []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"}},
	{"Interstellar", 2014, "Adventure, Drama, Science Fiction", 8.4, 33000, 110.3, "Christopher Nolan", []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain"}},
	{"The Prestige", 2006, "Drama, Mystery, Science Fiction", 8.2, 15000, 40.7, "Christopher Nolan", []string{"Hugh Jackman", "Christian Bale", "Michael Caine"}},
	{"Arrival", 2016, "Drama, Science Fiction, Mystery", 7.6, 17000, 38.4, "Denis Villeneuve", []string{"Amy Adams", "Jeremy Renner", "Forest Whitaker"}},
	{"Sicario", 2015, "Action, Crime, Thriller", 7.4, 9000, 33.9, "Denis Villeneuve", []string{"Emily Blunt", "Benicio del Toro", "Josh Brolin"}},
	{"Prisoners", 2013, "Drama, Thriller, Crime", 8.1, 11000, 36.5, "Denis Villeneuve", []string{"Hugh Jackman", "Jake Gyllenhaal", "Viola Davis"}},
	{"Paddington 2", 2017, "Comedy, Family, Adventure", 7.5, 2600, 21.0, "Paul King", []string{"Ben Whishaw", "Hugh Grant", "Sally Hawkins"}},
	{"The Grand Budapest Hotel", 2014, "Comedy, Drama", 8.0, 14000, 28.6, "Wes Anderson", []string{"Ralph Fiennes", "Tony Revolori", "Saoirse Ronan"}},
	{"Fantastic Mr. Fox", 2009, "Animation, Comedy, Family", 7.8, 5200, 19.4, "Wes Anderson", []string{"George Clooney", "Meryl Streep", "Jason Schwartzman"}},
	{"Mad Max: Fury Road", 2015, "Action, Adventure, Science Fiction", 7.6, 21000, 55.7, "George Miller", []string{"Tom Hardy", "Charlize Theron", "Nicholas Hoult"}},
	{"Blade Runner 2049", 2017, "Science Fiction, Drama", 7.5, 12000, 44.0, "Denis Villeneuve", []string{"Ryan Gosling", "Harrison Ford", "Ana de Armas"}},
	{"Knives Out", 2019, "Comedy, Crime, Mystery", 7.8, 11000, 35.2, "Rian Johnson", []string{"Daniel Craig", "Chris Evans", "Ana de Armas"}},
	{"Obscure Festival Short", 2021, "Drama", 6.1, 12, 1.3, "Jane Doe", []string{"John Roe"}},
}

type seedRating struct {
	username string
	title    string
	rating   float64
}

var users = []string{"alice", "bruno", "chen", "dana", "newcomer"}

var ratings = []seedRating{
	{"alice", "Heat", 9}, {"alice", "Collateral", 8.5}, {"alice", "Sicario", 8}, {"alice", "Mad Max: Fury Road", 9.5},
	{"bruno", "Inception", 9.5}, {"bruno", "Interstellar", 10}, {"bruno", "The Prestige", 9}, {"bruno", "Arrival", 8},
	{"chen", "Arrival", 9}, {"chen", "Blade Runner 2049", 9.5}, {"chen", "Prisoners", 8.5}, {"chen", "Interstellar", 8},
	{"dana", "Paddington 2", 9}, {"dana", "The Grand Budapest Hotel", 9.5}, {"dana", "Fantastic Mr. Fox", 8.5}, {"dana", "Knives Out", 8},
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding demo catalog")

	return db.Transaction(func(tx *gorm.DB) error {
		people, err := seedPeople(tx, log)
		if err != nil {
			return err
		}

		movies, err := seedMovies(tx, people, log)
		if err != nil {
			return err
		}

		accounts, err := seedUsers(tx, log)
		if err != nil {
			return err
		}

		return seedRatings(tx, accounts, movies, log)
	})
}

func seedPeople(tx *gorm.DB, log logger.Logger) (map[string]int, error) {
	names := lo.Uniq(lo.FlatMap(catalog, func(movie seedMovie, _ int) []string {
		return append([]string{movie.director}, movie.cast...)
	}))

	people := lo.Map(names, func(name string, _ int) Person { return Person{Name: name} })
	if err := tx.CreateInBatches(&people, 100).Error; err != nil {
		return nil, log.Err("failed to seed people", err)
	}

	return lo.SliceToMap(people, func(person Person) (string, int) {
		return person.Name, person.ID
	}), nil
}

func seedMovies(tx *gorm.DB, people map[string]int, log logger.Logger) (map[string]int, error) {
	movies := make(map[string]int, len(catalog))
	for _, entry := range catalog {
		released := time.Date(entry.year, time.June, 1, 0, 0, 0, 0, time.UTC)
		movie := Movie{
			Title:       entry.title,
			ReleaseDate: &released,
			Genres:      entry.genres,
			VoteAverage: entry.voteAverage,
			VoteCount:   entry.voteCount,
			Popularity:  entry.popularity,
			Crew: []MovieCrew{{
				PersonID:   people[entry.director],
				Job:        DirectorJob,
				Department: "Directing",
			}},
			Cast: lo.Map(entry.cast, func(name string, order int) MovieCast {
				return MovieCast{PersonID: people[name], CastOrder: order}
			}),
		}

		if err := tx.Create(&movie).Error; err != nil {
			return nil, log.Err("failed to seed movie", err, "title", entry.title)
		}
		movies[entry.title] = movie.ID
	}

	log.Info("Seeded movies", "count", len(movies))
	return movies, nil
}

func seedUsers(tx *gorm.DB, log logger.Logger) (map[string]int, error) {
	accounts := make(map[string]int, len(users))
	for _, username := range users {
		user := User{Username: username}
		if err := tx.Where(User{Username: username}).FirstOrCreate(&user).Error; err != nil {
			return nil, log.Err("failed to seed user", err, "username", username)
		}
		accounts[username] = user.ID
	}
	return accounts, nil
}

func seedRatings(tx *gorm.DB, accounts map[string]int, movies map[string]int, log logger.Logger) error {
	entries := lo.Map(ratings, func(entry seedRating, _ int) Rating {
		return Rating{
			UserID:  accounts[entry.username],
			MovieID: movies[entry.title],
			Value:   decimal.NewFromFloat(entry.rating),
		}
	})

	if err := tx.CreateInBatches(&entries, 100).Error; err != nil {
		return log.Err("failed to seed ratings", err)
	}

	log.Info("Seeded ratings", "count", len(entries))
	return nil
}
