package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/clients/redis"
	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/ctxutil"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/repos"
	"github.com/voltcert/voltcert-backend/internal/validation"
)

// ApplyMeasurementsInput carries one batch of readings for a circuit.
type ApplyMeasurementsInput struct {
	Readings    []validation.Reading
	DefectNotes *string
}

type CircuitService interface {
	ApplyMeasurements(ctx context.Context, circuitID uuid.UUID, in ApplyMeasurementsInput) (*domain.Circuit, []validation.Result, error)
}

type circuitService struct {
	db          *gorm.DB
	log         *logger.Logger
	circuitRepo repos.CircuitRepo
	testRepo    repos.TestRepo
	validator   *validation.Validator
	bus         redis.EventBus
}

func NewCircuitService(db *gorm.DB, log *logger.Logger, circuitRepo repos.CircuitRepo, testRepo repos.TestRepo, validator *validation.Validator, bus redis.EventBus) CircuitService {
	serviceLog := log.With("service", "CircuitService")
	return &circuitService{
		db:          db,
		log:         serviceLog,
		circuitRepo: circuitRepo,
		testRepo:    testRepo,
		validator:   validator,
		bus:         bus,
	}
}

// ComputeVerdict derives the circuit verdict from the full validation result
// set. Pure conjunction: one fail makes the circuit unsatisfactory; an unknown
// leaves it not_tested so the completion coverage gate catches the data gap.
func ComputeVerdict(results []validation.Result) domain.CircuitVerdict {
	if len(results) == 0 {
		return domain.VerdictNotTested
	}
	for _, r := range results {
		if r.Status == validation.StatusFail {
			return domain.VerdictUnsatisfactory
		}
	}
	for _, r := range results {
		if r.Status == validation.StatusUnknown {
			return domain.VerdictNotTested
		}
	}
	return domain.VerdictSatisfactory
}

// ApplyMeasurements stores every supplied reading unconditionally (the system
// documents reality, it does not refuse bad readings), re-validates the full
// stored set and recomputes the verdict. The verdict is never set by a caller.
func (cs *circuitService) ApplyMeasurements(ctx context.Context, circuitID uuid.UUID, in ApplyMeasurementsInput) (*domain.Circuit, []validation.Result, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, nil, faults.InvalidArgument("CircuitService.ApplyMeasurements", "tenant context required")
	}
	if len(in.Readings) == 0 {
		return nil, nil, faults.InvalidArgument("CircuitService.ApplyMeasurements", "at least one reading required")
	}

	var (
		updated *domain.Circuit
		results []validation.Result
	)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		circuit, err := cs.circuitRepo.GetByID(ctx, tx, rd.TenantID, circuitID)
		if err != nil {
			return err
		}

		status, err := cs.testRepo.GetStatus(ctx, tx, rd.TenantID, circuit.TestID)
		if err != nil {
			return err
		}
		if status == domain.StatusCompleted {
			return faults.PreconditionFailed("CircuitService.ApplyMeasurements", "test already completed; circuit is frozen")
		}

		now := time.Now().UTC()
		for _, r := range in.Readings {
			m := &domain.Measurement{
				TenantID:       rd.TenantID,
				CircuitID:      circuit.ID,
				Type:           r.Type,
				Value:          r.Value,
				Unit:           r.Unit,
				TestMultiplier: max(r.Multiplier, 1),
				RecordedAt:     now,
			}
			if err := cs.circuitRepo.UpsertMeasurement(ctx, tx, m); err != nil {
				return err
			}
		}

		stored, err := cs.circuitRepo.GetMeasurements(ctx, tx, rd.TenantID, circuit.ID)
		if err != nil {
			return err
		}

		cc := validation.CircuitContext{
			Class:          circuit.Class,
			DeviceRating:   circuit.ProtectiveDeviceRating,
			NominalVoltage: circuit.NominalVoltage,
		}
		readings := make([]validation.Reading, 0, len(stored))
		for _, m := range stored {
			readings = append(readings, validation.Reading{
				Type:       m.Type,
				Value:      m.Value,
				Unit:       m.Unit,
				Multiplier: m.TestMultiplier,
			})
		}
		results = cs.validator.ValidateAll(readings, cc)

		verdict := ComputeVerdict(results)
		notes := defectNotes(results, in.DefectNotes)
		if err := cs.circuitRepo.UpdateDerived(ctx, tx, rd.TenantID, circuit.ID, circuit.Version, verdict, notes); err != nil {
			return err
		}

		updated, err = cs.circuitRepo.GetByID(ctx, tx, rd.TenantID, circuit.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	cs.publishMeasurementEvent(ctx, rd.TenantID, updated, results)
	return updated, results, nil
}

func defectNotes(results []validation.Result, extra *string) string {
	parts := []string{}
	for _, r := range results {
		if r.Status == validation.StatusFail && r.Message != "" {
			parts = append(parts, r.Message)
		}
	}
	if extra != nil && strings.TrimSpace(*extra) != "" {
		parts = append(parts, strings.TrimSpace(*extra))
	}
	return strings.Join(parts, "; ")
}

// Publish failure must not fail the update; log and move on.
func (cs *circuitService) publishMeasurementEvent(ctx context.Context, tenantID uuid.UUID, circuit *domain.Circuit, results []validation.Result) {
	if cs.bus == nil || circuit == nil {
		return
	}
	evt := domain.Event{
		Name:     domain.EventMeasurementsRecorded,
		TenantID: tenantID,
		Payload: map[string]any{
			"test_id":    circuit.TestID,
			"circuit_id": circuit.ID,
			"verdict":    circuit.Verdict,
			"results":    results,
		},
	}
	if err := cs.bus.Publish(ctx, evt); err != nil {
		cs.log.Warn("event publish failed (ignored)", "event", evt.Name, "error", err)
	}
}
