package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/pkg/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "voltcert", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&domain.Standard{},
		&domain.Test{},
		&domain.Circuit{},
		&domain.Measurement{},
		&domain.Observation{},
		&domain.Certificate{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{"fk_circuit_test_id", `
			ALTER TABLE "circuit"
			ADD CONSTRAINT "fk_circuit_test_id"
			FOREIGN KEY ("test_id")
			REFERENCES "test"("id")
			ON DELETE CASCADE
		`},
		{"fk_measurement_circuit_id", `
			ALTER TABLE "measurement"
			ADD CONSTRAINT "fk_measurement_circuit_id"
			FOREIGN KEY ("circuit_id")
			REFERENCES "circuit"("id")
			ON DELETE CASCADE
		`},
		{"fk_observation_test_id", `
			ALTER TABLE "observation"
			ADD CONSTRAINT "fk_observation_test_id"
			FOREIGN KEY ("test_id")
			REFERENCES "test"("id")
			ON DELETE CASCADE
		`},
		{"fk_certificate_test_id", `
			ALTER TABLE "certificate"
			ADD CONSTRAINT "fk_certificate_test_id"
			FOREIGN KEY ("test_id")
			REFERENCES "test"("id")
			ON DELETE RESTRICT
		`},
	}
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
