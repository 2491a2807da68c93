package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/clients/gcp"
	"github.com/voltcert/voltcert-backend/internal/clients/redis"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/render"
	"github.com/voltcert/voltcert-backend/internal/services"
	"github.com/voltcert/voltcert-backend/internal/standards"
	"github.com/voltcert/voltcert-backend/internal/validation"
)

type Services struct {
	Test           services.TestService
	Circuit        services.CircuitService
	Certificate    services.CertificateService
	ScheduleExport services.ScheduleExportService
	Bus            redis.EventBus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	if cfg.StandardsSeedPath != "" {
		rows, err := standards.LoadSeed(cfg.StandardsSeedPath)
		if err != nil {
			return Services{}, err
		}
		if _, err := reposet.Standard.SeedIfEmpty(context.Background(), nil, rows); err != nil {
			return Services{}, err
		}
	}
	rows, err := reposet.Standard.GetAll(context.Background(), nil)
	if err != nil {
		return Services{}, err
	}
	resolver := standards.NewResolver(rows)
	log.Info("standards table loaded", "rows", resolver.Len())
	validator := validation.NewValidator(resolver)

	renderer, err := render.NewRenderer()
	if err != nil {
		return Services{}, err
	}

	store, err := gcp.NewCertificateStore(log)
	if err != nil {
		return Services{}, err
	}

	bus, err := redis.NewEventBus(log)
	if err != nil {
		log.Warn("Redis event bus unavailable, events disabled", "error", err)
		bus = redis.NewNopBus()
	}

	testService := services.NewTestService(db, log, reposet.Test, reposet.Circuit, bus)
	circuitService := services.NewCircuitService(db, log, reposet.Circuit, reposet.Test, validator, bus)
	certService := services.NewCertificateService(db, log, reposet.Test, reposet.Certificate, renderer, store, bus)
	exportService := services.NewScheduleExportService(db, log, reposet.Test)

	return Services{
		Test:           testService,
		Circuit:        circuitService,
		Certificate:    certService,
		ScheduleExport: exportService,
		Bus:            bus,
	}, nil
}
