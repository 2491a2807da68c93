package app

import (
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/pkg/utils"
)

type Config struct {
	Environment       string
	Version           string
	Port              string
	StandardsSeedPath string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Environment:       utils.GetEnv("APP_ENV", "development", log),
		Version:           utils.GetEnv("APP_VERSION", "dev", log),
		Port:              utils.GetEnv("PORT", "8080", log),
		StandardsSeedPath: utils.GetEnv("STANDARDS_SEED_PATH", "", log),
	}
}
