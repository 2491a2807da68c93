package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

// StandardRepo reads the regulatory standards table. The table is seeded and
// administered externally; this subsystem never writes it outside of seeding.
type StandardRepo interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]domain.Standard, error)
	SeedIfEmpty(ctx context.Context, tx *gorm.DB, rows []domain.Standard) (int, error)
}

type standardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStandardRepo(db *gorm.DB, baseLog *logger.Logger) StandardRepo {
	repoLog := baseLog.With("repo", "StandardRepo")
	return &standardRepo{db: db, log: repoLog}
}

func (sr *standardRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]domain.Standard, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var rows []domain.Standard
	if err := transaction.WithContext(ctx).
		Order("measurement_type, circuit_class NULLS LAST, circuit_rating NULLS LAST").
		Find(&rows).Error; err != nil {
		return nil, faults.MapStoreError("StandardRepo.GetAll", err)
	}
	return rows, nil
}

func (sr *standardRepo) SeedIfEmpty(ctx context.Context, tx *gorm.DB, rows []domain.Standard) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).Model(&domain.Standard{}).Count(&count).Error; err != nil {
		return 0, faults.MapStoreError("StandardRepo.SeedIfEmpty", err)
	}
	if count > 0 || len(rows) == 0 {
		return 0, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, faults.MapStoreError("StandardRepo.SeedIfEmpty", err)
	}
	sr.log.Info("seeded standards table", "rows", len(rows))
	return len(rows), nil
}
