package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

type TestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, test *domain.Test) (*domain.Test, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) (*domain.Test, error)
	GetStatus(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) (domain.TestStatus, error)
	List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*domain.Test, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID, status domain.TestStatus) error
	Complete(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID, outcome domain.TestOutcome, completionDate time.Time, checklist []byte) error
	AddObservation(ctx context.Context, tx *gorm.DB, obs *domain.Observation) (*domain.Observation, error)
}

type testRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestRepo(db *gorm.DB, baseLog *logger.Logger) TestRepo {
	repoLog := baseLog.With("repo", "TestRepo")
	return &testRepo{db: db, log: repoLog}
}

func (tr *testRepo) Create(ctx context.Context, tx *gorm.DB, test *domain.Test) (*domain.Test, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(test).Error; err != nil {
		return nil, faults.MapStoreError("TestRepo.Create", err)
	}
	return test, nil
}

func (tr *testRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) (*domain.Test, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var test domain.Test
	if err := transaction.WithContext(ctx).
		Preload("Circuits", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Circuits.Measurements").
		Preload("Observations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, testID).
		First(&test).Error; err != nil {
		return nil, faults.MapStoreError("TestRepo.GetByID", err)
	}
	return &test, nil
}

// GetStatus avoids the full preload when only the lifecycle state matters.
func (tr *testRepo) GetStatus(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) (domain.TestStatus, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var status domain.TestStatus
	if err := transaction.WithContext(ctx).
		Model(&domain.Test{}).
		Select("status").
		Where("tenant_id = ? AND id = ?", tenantID, testID).
		First(&status).Error; err != nil {
		return "", faults.MapStoreError("TestRepo.GetStatus", err)
	}
	return status, nil
}

func (tr *testRepo) List(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*domain.Test, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*domain.Test
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, faults.MapStoreError("TestRepo.List", err)
	}
	return results, nil
}

func (tr *testRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID, status domain.TestStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Test{}).
		Where("tenant_id = ? AND id = ?", tenantID, testID).
		Update("status", status)
	if res.Error != nil {
		return faults.MapStoreError("TestRepo.UpdateStatus", res.Error)
	}
	if res.RowsAffected == 0 {
		return faults.NotFound("TestRepo.UpdateStatus", "test not found under tenant")
	}
	return nil
}

// Complete freezes status, outcome, completion date and the recorded checklist
// in one write. Outcome is never recomputed after this.
func (tr *testRepo) Complete(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID, outcome domain.TestOutcome, completionDate time.Time, checklist []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	fields := map[string]interface{}{
		"status":          domain.StatusCompleted,
		"outcome":         outcome,
		"completion_date": completionDate,
	}
	if len(checklist) > 0 {
		fields["checklist"] = checklist
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Test{}).
		Where("tenant_id = ? AND id = ? AND status <> ?", tenantID, testID, domain.StatusCompleted).
		Updates(fields)
	if res.Error != nil {
		return faults.MapStoreError("TestRepo.Complete", res.Error)
	}
	if res.RowsAffected == 0 {
		return faults.PreconditionFailed("TestRepo.Complete", "test missing or already completed")
	}
	return nil
}

func (tr *testRepo) AddObservation(ctx context.Context, tx *gorm.DB, obs *domain.Observation) (*domain.Observation, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(obs).Error; err != nil {
		return nil, faults.MapStoreError("TestRepo.AddObservation", err)
	}
	return obs, nil
}
