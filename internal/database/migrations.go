package database

import (
	"movierec/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// ModelsToMigrate lists every table owned by the service, parents first.
var ModelsToMigrate = []any{
	&models.User{},
	&models.Person{},
	&models.Movie{},
	&models.MovieCast{},
	&models.MovieCrew{},
	&models.Rating{},
	&models.WatchHistory{},
	&models.Comment{},
	&models.CommentLike{},
	&models.GenrePreference{},
	&models.RecommendationCacheEntry{},
	&models.UserPreferences{},
}

// MigrateModels creates tables without foreign keys first, then adds constraints.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	log.Info("Phase 1: Creating tables without foreign key constraints")
	db.SQL.Config.DisableForeignKeyConstraintWhenMigrating = true
	for _, table := range ModelsToMigrate {
		if db.SQL.Migrator().HasTable(table) {
			continue
		}
		log.Info("Creating table structure", "table", table)
		if err := db.SQL.Migrator().CreateTable(table); err != nil {
			return log.Err("failed to create table structure", err)
		}
	}

	db.SQL.Config.DisableForeignKeyConstraintWhenMigrating = false
	log.Info("Phase 2: Adding foreign key constraints and relationships")
	if err := db.SQL.AutoMigrate(ModelsToMigrate...); err != nil {
		return log.Err("failed to add constraints", err)
	}

	log.Info("Database migration completed")
	return nil
}

// DropModels removes every service table, used before reseeding.
func (db *DB) DropModels() error {
	log := logger.New("database").Function("DropModels")

	if err := db.SQL.Migrator().DropTable(ModelsToMigrate...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	log.Info("Dropped all tables successfully")
	return nil
}
