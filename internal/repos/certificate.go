package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

// CertificateRepo is append-only: regeneration inserts a new row, never
// updates an old one.
type CertificateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cert *domain.Certificate) (*domain.Certificate, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, certID uuid.UUID) (*domain.Certificate, error)
	ListByTest(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) ([]*domain.Certificate, error)
	NextSequence(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, certType domain.TestType) (int, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	repoLog := baseLog.With("repo", "CertificateRepo")
	return &certificateRepo{db: db, log: repoLog}
}

func (cr *certificateRepo) Create(ctx context.Context, tx *gorm.DB, cert *domain.Certificate) (*domain.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(cert).Error; err != nil {
		return nil, faults.MapStoreError("CertificateRepo.Create", err)
	}
	return cert, nil
}

func (cr *certificateRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, certID uuid.UUID) (*domain.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var cert domain.Certificate
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, certID).
		First(&cert).Error; err != nil {
		return nil, faults.MapStoreError("CertificateRepo.GetByID", err)
	}
	return &cert, nil
}

func (cr *certificateRepo) ListByTest(ctx context.Context, tx *gorm.DB, tenantID, testID uuid.UUID) ([]*domain.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*domain.Certificate
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND test_id = ?", tenantID, testID).
		Order("generated_at ASC").
		Find(&results).Error; err != nil {
		return nil, faults.MapStoreError("CertificateRepo.ListByTest", err)
	}
	return results, nil
}

// NextSequence allocates the next per-(tenant, type) certificate sequence.
// Must run inside the generation transaction so a failed render rolls the
// number back; the unique index on (tenant_id, type, sequence) backstops races.
func (cr *certificateRepo) NextSequence(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, certType domain.TestType) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var max int
	if err := transaction.WithContext(ctx).
		Model(&domain.Certificate{}).
		Select("COALESCE(MAX(sequence), 0)").
		Where("tenant_id = ? AND certificate_type = ?", tenantID, certType).
		Scan(&max).Error; err != nil {
		return 0, faults.MapStoreError("CertificateRepo.NextSequence", err)
	}
	return max + 1, nil
}
