package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

type CircuitRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, circuits []*domain.Circuit) ([]*domain.Circuit, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, circuitID uuid.UUID) (*domain.Circuit, error)
	GetByTestID(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) ([]*domain.Circuit, error)
	UpsertMeasurement(ctx context.Context, tx *gorm.DB, m *domain.Measurement) error
	GetMeasurements(ctx context.Context, tx *gorm.DB, tenantID, circuitID uuid.UUID) ([]domain.Measurement, error)
	UpdateDerived(ctx context.Context, tx *gorm.DB, tenantID, circuitID uuid.UUID, expectedVersion int, verdict domain.CircuitVerdict, defectNotes string) error
}

type circuitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCircuitRepo(db *gorm.DB, baseLog *logger.Logger) CircuitRepo {
	repoLog := baseLog.With("repo", "CircuitRepo")
	return &circuitRepo{db: db, log: repoLog}
}

func (cr *circuitRepo) CreateBatch(ctx context.Context, tx *gorm.DB, circuits []*domain.Circuit) ([]*domain.Circuit, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(circuits) == 0 {
		return []*domain.Circuit{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&circuits).Error; err != nil {
		return nil, faults.MapStoreError("CircuitRepo.CreateBatch", err)
	}
	return circuits, nil
}

func (cr *circuitRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, circuitID uuid.UUID) (*domain.Circuit, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var circuit domain.Circuit
	if err := transaction.WithContext(ctx).
		Preload("Measurements").
		Where("tenant_id = ? AND id = ?", tenantID, circuitID).
		First(&circuit).Error; err != nil {
		return nil, faults.MapStoreError("CircuitRepo.GetByID", err)
	}
	return &circuit, nil
}

func (cr *circuitRepo) GetByTestID(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) ([]*domain.Circuit, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*domain.Circuit
	if err := transaction.WithContext(ctx).
		Preload("Measurements").
		Where("tenant_id = ? AND test_id = ?", tenantID, testID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, faults.MapStoreError("CircuitRepo.GetByTestID", err)
	}
	return results, nil
}

// UpsertMeasurement stores the latest reading per (circuit, type). A correction
// replaces the value through this same path.
func (cr *circuitRepo) UpsertMeasurement(ctx context.Context, tx *gorm.DB, m *domain.Measurement) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "circuit_id"}, {Name: "measurement_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value", "unit", "test_multiplier", "notes", "recorded_at",
		}),
	}).Create(m).Error; err != nil {
		return faults.MapStoreError("CircuitRepo.UpsertMeasurement", err)
	}
	return nil
}

func (cr *circuitRepo) GetMeasurements(ctx context.Context, tx *gorm.DB, tenantID, circuitID uuid.UUID) ([]domain.Measurement, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var rows []domain.Measurement
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND circuit_id = ?", tenantID, circuitID).
		Order("measurement_type ASC").
		Find(&rows).Error; err != nil {
		return nil, faults.MapStoreError("CircuitRepo.GetMeasurements", err)
	}
	return rows, nil
}

// UpdateDerived writes the recomputed verdict with an optimistic version check.
// A stale version maps to a conflict so a concurrent edit cannot lose updates.
func (cr *circuitRepo) UpdateDerived(ctx context.Context, tx *gorm.DB, tenantID, circuitID uuid.UUID, expectedVersion int, verdict domain.CircuitVerdict, defectNotes string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Circuit{}).
		Where("tenant_id = ? AND id = ? AND version = ?", tenantID, circuitID, expectedVersion).
		Updates(map[string]interface{}{
			"verdict":      verdict,
			"defect_notes": defectNotes,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return faults.MapStoreError("CircuitRepo.UpdateDerived", res.Error)
	}
	if res.RowsAffected == 0 {
		return faults.New(faults.CodeConflict, "CircuitRepo.UpdateDerived", "circuit modified concurrently", nil)
	}
	return nil
}
