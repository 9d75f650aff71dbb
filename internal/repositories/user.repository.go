package repositories

import (
	"context"
	"errors"
	"movierec/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Exists(ctx context.Context, tx *gorm.DB, userID int) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetPreferences(ctx context.Context, tx *gorm.DB, userID int) (*models.UserPreferences, error)
	SavePreferences(ctx context.Context, tx *gorm.DB, preferences *models.UserPreferences) error
}

type userRepository struct {
	log logger.Logger
}

func NewUserRepository() UserRepository {
	return &userRepository{
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) Exists(ctx context.Context, tx *gorm.DB, userID int) (bool, error) {
	count, err := gorm.G[models.User](tx).Where("id = ?", userID).Count(ctx, "id")
	if err != nil {
		return false, r.log.Function("Exists").Err("failed to check user", err, "userID", userID)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := gorm.G[models.User](tx).Create(ctx, user); err != nil {
		return r.log.Function("Create").Err("failed to create user", err, "username", user.Username)
	}
	return nil
}

// GetPreferences returns nil without error when the user never declared anything.
func (r *userRepository) GetPreferences(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
) (*models.UserPreferences, error) {
	preferences, err := gorm.G[models.UserPreferences](tx).Where("user_id = ?", userID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.log.Function("GetPreferences").
			Err("failed to get user preferences", err, "userID", userID)
	}
	return &preferences, nil
}

func (r *userRepository) SavePreferences(
	ctx context.Context,
	tx *gorm.DB,
	preferences *models.UserPreferences,
) error {
	err := gorm.G[models.UserPreferences](tx, clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"genres", "directors", "actors", "updated_at"}),
	}).Create(ctx, preferences)
	if err != nil {
		return r.log.Function("SavePreferences").
			Err("failed to save user preferences", err, "userID", preferences.UserID)
	}
	return nil
}
