package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/repos/testutil"
)

func TestTestRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTestRepo(db, testutil.Logger(t))
	circuitRepo := NewCircuitRepo(db, testutil.Logger(t))

	tenantID := uuid.New()

	test := &domain.Test{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Type:         domain.TestTypeConditionReport,
		Status:       domain.StatusDraft,
		PremisesType: domain.PremisesDomestic,
		ClientName:   "A Client",
	}
	if _, err := repo.Create(ctx, tx, test); err != nil {
		t.Fatalf("Create: %v", err)
	}

	circuits := []*domain.Circuit{
		{ID: uuid.New(), TenantID: tenantID, TestID: test.ID, Position: 2, Reference: "C2", Class: domain.CircuitClassLighting, NominalVoltage: 230, Verdict: domain.VerdictNotTested},
		{ID: uuid.New(), TenantID: tenantID, TestID: test.ID, Position: 1, Reference: "C1", Class: domain.CircuitClassRingFinal, NominalVoltage: 230, Verdict: domain.VerdictNotTested},
	}
	if _, err := circuitRepo.CreateBatch(ctx, tx, circuits); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, tenantID, test.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Circuits) != 2 {
		t.Fatalf("GetByID: expected 2 circuits, got %d", len(got.Circuits))
	}
	// Preload orders circuits by position regardless of insert order.
	if got.Circuits[0].Reference != "C1" || got.Circuits[1].Reference != "C2" {
		t.Fatalf("GetByID: circuits out of order: %s, %s", got.Circuits[0].Reference, got.Circuits[1].Reference)
	}

	// Tenant scoping: a different tenant cannot see the row.
	if _, err := repo.GetByID(ctx, tx, uuid.New(), test.ID); !faults.IsCode(err, faults.CodeNotFound) {
		t.Fatalf("GetByID cross-tenant: expected not_found, got %v", err)
	}

	status, err := repo.GetStatus(ctx, tx, tenantID, test.ID)
	if err != nil || status != domain.StatusDraft {
		t.Fatalf("GetStatus: status=%s err=%v", status, err)
	}

	if err := repo.UpdateStatus(ctx, tx, tenantID, test.ID, domain.StatusInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.UpdateStatus(ctx, tx, tenantID, uuid.New(), domain.StatusInProgress); !faults.IsCode(err, faults.CodeNotFound) {
		t.Fatalf("UpdateStatus missing: expected not_found, got %v", err)
	}

	obs := &domain.Observation{
		ID: uuid.New(), TenantID: tenantID, TestID: test.ID, Position: 1,
		Code: domain.ObservationC2, Detail: "Damaged socket front", RecordedAt: time.Now().UTC(),
	}
	if _, err := repo.AddObservation(ctx, tx, obs); err != nil {
		t.Fatalf("AddObservation: %v", err)
	}

	completionDate := time.Now().UTC()
	if err := repo.Complete(ctx, tx, tenantID, test.ID, domain.OutcomeUnsatisfactory, completionDate, []byte(`[]`)); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// Second completion must not overwrite the frozen outcome.
	if err := repo.Complete(ctx, tx, tenantID, test.ID, domain.OutcomeSatisfactory, completionDate, nil); !faults.IsCode(err, faults.CodePreconditionFailed) {
		t.Fatalf("Complete twice: expected precondition_failed, got %v", err)
	}

	got, err = repo.GetByID(ctx, tx, tenantID, test.ID)
	if err != nil {
		t.Fatalf("GetByID after complete: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.Outcome == nil || *got.Outcome != domain.OutcomeUnsatisfactory {
		t.Fatalf("expected frozen unsatisfactory outcome, got %v", got.Outcome)
	}
	if len(got.Observations) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(got.Observations))
	}

	rows, err := repo.List(ctx, tx, tenantID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("List: err=%v len=%d", err, len(rows))
	}
}
