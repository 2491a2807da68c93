package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/repos/testutil"
)

func TestCertificateRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCertificateRepo(db, testutil.Logger(t))
	testRepo := NewTestRepo(db, testutil.Logger(t))

	tenantID := uuid.New()
	otherTenant := uuid.New()

	test := &domain.Test{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Type:         domain.TestTypeInstallation,
		Status:       domain.StatusCompleted,
		PremisesType: domain.PremisesDomestic,
	}
	if _, err := testRepo.Create(ctx, tx, test); err != nil {
		t.Fatalf("Create test: %v", err)
	}

	seq, err := repo.NextSequence(ctx, tx, tenantID, domain.TestTypeInstallation)
	if err != nil || seq != 1 {
		t.Fatalf("NextSequence empty: seq=%d err=%v", seq, err)
	}

	now := time.Now().UTC()
	cert := &domain.Certificate{
		ID:             uuid.New(),
		TenantID:       tenantID,
		TestID:         test.ID,
		Type:           domain.TestTypeInstallation,
		Sequence:       seq,
		Number:         "EIC-000001",
		IssueDate:      now,
		StorageLocator: "certificates/x/EIC-000001.pdf",
		SizeBytes:      1024,
		GeneratedBy:    uuid.New(),
		GeneratedAt:    now,
	}
	if _, err := repo.Create(ctx, tx, cert); err != nil {
		t.Fatalf("Create: %v", err)
	}

	seq, err = repo.NextSequence(ctx, tx, tenantID, domain.TestTypeInstallation)
	if err != nil || seq != 2 {
		t.Fatalf("NextSequence after create: seq=%d err=%v", seq, err)
	}

	// Sequences are independent per certificate type and per tenant.
	if seq, _ := repo.NextSequence(ctx, tx, tenantID, domain.TestTypeMinorWorks); seq != 1 {
		t.Fatalf("NextSequence other type: expected 1, got %d", seq)
	}
	if seq, _ := repo.NextSequence(ctx, tx, otherTenant, domain.TestTypeInstallation); seq != 1 {
		t.Fatalf("NextSequence other tenant: expected 1, got %d", seq)
	}

	got, err := repo.GetByID(ctx, tx, tenantID, cert.ID)
	if err != nil || got.Number != "EIC-000001" {
		t.Fatalf("GetByID: err=%v number=%q", err, got.Number)
	}

	certs, err := repo.ListByTest(ctx, tx, tenantID, test.ID)
	if err != nil || len(certs) != 1 {
		t.Fatalf("ListByTest: err=%v len=%d", err, len(certs))
	}
}
