package controllers

import (
	"movierec/internal/database"
	"movierec/internal/repositories"
	"movierec/internal/services"

	adminController "movierec/internal/controllers/admin"
	movieController "movierec/internal/controllers/movies"
	recommendationController "movierec/internal/controllers/recommendation"
	userController "movierec/internal/controllers/users"
)

type Controllers struct {
	Recommendation recommendationController.RecommendationControllerInterface
	User           userController.UserControllerInterface
	Movie          movieController.MovieControllerInterface
	Admin          adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) Controllers {
	return Controllers{
		Recommendation: recommendationController.New(services),
		User:           userController.New(services),
		Movie:          movieController.New(repos, services, db),
		Admin:          adminController.New(services),
	}
}
