package utils

import (
	"os"
	"strconv"
	"strings"

	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

func GetEnv(key, fallback string, log *logger.Logger) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		if log != nil {
			log.Debug("env var unset, using fallback", "key", key, "fallback", fallback)
		}
		return fallback
	}
	return v
}

func GetEnvAsInt(key string, fallback int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("env var is not an int, using fallback", "key", key, "value", v)
		}
		return fallback
	}
	return n
}
