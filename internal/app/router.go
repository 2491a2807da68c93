package app

import (
	"github.com/gin-gonic/gin"

	"github.com/voltcert/voltcert-backend/internal/server"
)

func wireRouter(handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:     mw.Auth,
		TestHandler:        handlerset.Test,
		CircuitHandler:     handlerset.Circuit,
		CertificateHandler: handlerset.Certificate,
	})
}
