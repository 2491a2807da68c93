package app

import (
	"github.com/voltcert/voltcert-backend/internal/middleware"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger) (Middleware, error) {
	log.Info("Wiring middleware...")
	auth, err := middleware.NewAuthMiddleware(log)
	if err != nil {
		return Middleware{}, err
	}
	return Middleware{Auth: auth}, nil
}
