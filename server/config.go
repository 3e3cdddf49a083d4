package main

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"gto-trainer/server/rival"
)

type appConfig struct {
	Hands      int    `env:"TRAINER_HANDS" env-default:"1"`
	MCSamples  int    `env:"TRAINER_MC_SAMPLES" env-default:"200"`
	Seed       int64  `env:"TRAINER_SEED" env-default:"0"`
	RivalStyle string `env:"TRAINER_RIVAL_STYLE" env-default:"balanced"`
	NoColor    bool   `env:"TRAINER_NO_COLOR" env-default:"false"`

	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	Port        string `env:"PORT" env-default:"8080"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" env-default:"false"`
}

// loadConfig reads .env (dev convenience) and then the process environment.
func loadConfig() (appConfig, error) {
	_ = godotenv.Load()

	var cfg appConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return appConfig{}, err
	}
	if _, err := rival.ParseStyle(cfg.RivalStyle); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}
