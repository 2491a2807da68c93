package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/voltcert/voltcert-backend/internal/handlers"
	"github.com/voltcert/voltcert-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware     *middleware.AuthMiddleware
	TestHandler        *handlers.TestHandler
	CircuitHandler     *handlers.CircuitHandler
	CertificateHandler *handlers.CertificateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("voltcert"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Tests
	api.POST("/tests", cfg.TestHandler.Create)
	api.GET("/tests", cfg.TestHandler.List)
	api.GET("/tests/:test_id", cfg.TestHandler.Get)
	api.POST("/tests/:test_id/schedule", cfg.TestHandler.Schedule)
	api.POST("/tests/:test_id/start", cfg.TestHandler.Start)
	api.POST("/tests/:test_id/complete", cfg.TestHandler.Complete)
	api.POST("/tests/:test_id/observations", cfg.TestHandler.AddObservation)
	api.GET("/tests/:test_id/schedule.xlsx", cfg.TestHandler.ExportSchedule)
	// Circuits
	api.POST("/circuits/:circuit_id/measurements", cfg.CircuitHandler.RecordMeasurements)
	// Certificates
	api.POST("/tests/:test_id/certificates", cfg.CertificateHandler.Generate)
	api.GET("/tests/:test_id/certificates", cfg.CertificateHandler.ListByTest)
	api.GET("/certificates/:certificate_id/url", cfg.CertificateHandler.DownloadURL)

	return router
}
