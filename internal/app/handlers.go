package app

import (
	"github.com/voltcert/voltcert-backend/internal/handlers"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

type Handlers struct {
	Test        *handlers.TestHandler
	Circuit     *handlers.CircuitHandler
	Certificate *handlers.CertificateHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Test:        handlers.NewTestHandler(serviceset.Test, serviceset.ScheduleExport),
		Circuit:     handlers.NewCircuitHandler(serviceset.Circuit),
		Certificate: handlers.NewCertificateHandler(serviceset.Certificate),
	}
}
