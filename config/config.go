package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	TMDBImageBaseURL     string `mapstructure:"TMDB_IMAGE_BASE_URL"`

	StalenessMinutes       int     `mapstructure:"RECOMMENDER_STALENESS_MINUTES"`
	RandomFactor           float64 `mapstructure:"RECOMMENDER_RANDOM_FACTOR"`
	RandomSeed             int64   `mapstructure:"RECOMMENDER_RANDOM_SEED"`
	UserCFWeight           float64 `mapstructure:"RECOMMENDER_USER_CF_WEIGHT"`
	ItemCFWeight           float64 `mapstructure:"RECOMMENDER_ITEM_CF_WEIGHT"`
	ContentWeight          float64 `mapstructure:"RECOMMENDER_CONTENT_WEIGHT"`
	PopularityLockTimeout  int     `mapstructure:"POPULARITY_LOCK_TIMEOUT_SECONDS"`
	PopularityApplyPenalty bool    `mapstructure:"POPULARITY_APPLY_PENALTY"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()
	setDefaults()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS", "SCHEDULER_ENABLED", "TMDB_IMAGE_BASE_URL",
		"RECOMMENDER_STALENESS_MINUTES", "RECOMMENDER_RANDOM_FACTOR", "RECOMMENDER_RANDOM_SEED",
		"RECOMMENDER_USER_CF_WEIGHT", "RECOMMENDER_ITEM_CF_WEIGHT", "RECOMMENDER_CONTENT_WEIGHT",
		"POPULARITY_LOCK_TIMEOUT_SECONDS", "POPULARITY_APPLY_PENALTY",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// Defaults mirror the recommender's tuned constants.
func setDefaults() {
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500")
	viper.SetDefault("RECOMMENDER_STALENESS_MINUTES", 30)
	viper.SetDefault("RECOMMENDER_RANDOM_FACTOR", 0.1)
	viper.SetDefault("RECOMMENDER_RANDOM_SEED", 0)
	viper.SetDefault("RECOMMENDER_USER_CF_WEIGHT", 0.4)
	viper.SetDefault("RECOMMENDER_ITEM_CF_WEIGHT", 0.3)
	viper.SetDefault("RECOMMENDER_CONTENT_WEIGHT", 0.3)
	viper.SetDefault("POPULARITY_LOCK_TIMEOUT_SECONDS", 5)
	viper.SetDefault("POPULARITY_APPLY_PENALTY", true)
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.StalenessMinutes <= 0 {
		return log.Error(
			"Fatal error: recommender staleness must be positive",
			"minutes", config.StalenessMinutes,
		)
	}

	if config.RandomFactor < 0 {
		return log.Error(
			"Fatal error: recommender random factor cannot be negative",
			"randomFactor", config.RandomFactor,
		)
	}

	weights := config.UserCFWeight + config.ItemCFWeight + config.ContentWeight
	if config.UserCFWeight < 0 || config.ItemCFWeight < 0 || config.ContentWeight < 0 || weights == 0 {
		return log.Error(
			"Fatal error: invalid hybrid fusion weights",
			"userCF", config.UserCFWeight,
			"itemCF", config.ItemCFWeight,
			"content", config.ContentWeight,
		)
	}

	if config.PopularityLockTimeout <= 0 {
		return log.Error(
			"Fatal error: popularity lock timeout must be positive",
			"seconds", config.PopularityLockTimeout,
		)
	}

	ConfigInstance = config
	return nil
}
