package services

import (
	"context"
	"encoding/json"
	"fmt"
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
)

// PlannedCircuit describes one circuit created alongside a new test.
type PlannedCircuit struct {
	Reference              string              `json:"reference" binding:"required"`
	Location               string              `json:"location"`
	Class                  domain.CircuitClass `json:"circuit_class" binding:"required"`
	ProtectiveDeviceType   string              `json:"protective_device_type"`
	ProtectiveDeviceRating float64             `json:"protective_device_rating"`
	NominalVoltage         float64             `json:"nominal_voltage"`
	ConductorSize          string              `json:"conductor_size"`
}

type CreateTestInput struct {
	Type                  domain.TestType     `json:"test_type" binding:"required"`
	PremisesType          domain.PremisesType `json:"premises_type"`
	ClientName            string              `json:"client_name"`
	ClientAddress         string              `json:"client_address"`
	InstallationAddress   string              `json:"installation_address"`
	Description           string              `json:"description"`
	ExtentOfInspection    string              `json:"extent_of_inspection"`
	AgreedLimitations     string              `json:"agreed_limitations"`
	InspectorName         string              `json:"inspector_name"`
	InspectorRegistration string              `json:"inspector_registration"`
	DesignerName          string              `json:"designer_name"`
	DesignerRegistration  string              `json:"designer_registration"`
	NextInspectionMonths  *int                `json:"next_inspection_months"`
	Circuits              []PlannedCircuit    `json:"circuits"`
}

type CompleteTestInput struct {
	Outcome        domain.TestOutcome     `json:"outcome" binding:"required"`
	CompletionDate *time.Time             `json:"completion_date"`
	Checklist      []domain.ChecklistItem `json:"checklist"`
}

type AddObservationInput struct {
	Code     domain.ObservationCode `json:"code" binding:"required"`
	Detail   string                 `json:"detail" binding:"required"`
	Location string                 `json:"location"`
}

type TestService interface {
	Create(ctx context.Context, in CreateTestInput) (*domain.Test, error)
	Get(ctx context.Context, testID uuid.UUID) (*domain.Test, error)
	List(ctx context.Context) ([]*domain.Test, error)
	Schedule(ctx context.Context, testID uuid.UUID) (*domain.Test, error)
	Start(ctx context.Context, testID uuid.UUID) (*domain.Test, error)
	Complete(ctx context.Context, testID uuid.UUID, in CompleteTestInput) (*domain.Test, error)
	AddObservation(ctx context.Context, testID uuid.UUID, in AddObservationInput) (*domain.Observation, error)
}

type testService struct {
	db          *gorm.DB
	log         *logger.Logger
	testRepo    repos.TestRepo
	circuitRepo repos.CircuitRepo
	bus         redis.EventBus
}

func NewTestService(db *gorm.DB, log *logger.Logger, testRepo repos.TestRepo, circuitRepo repos.CircuitRepo, bus redis.EventBus) TestService {
	serviceLog := log.With("service", "TestService")
	return &testService{
		db:          db,
		log:         serviceLog,
		testRepo:    testRepo,
		circuitRepo: circuitRepo,
		bus:         bus,
	}
}

var validTestTypes = map[domain.TestType]bool{
	domain.TestTypeInstallation:      true,
	domain.TestTypeConditionReport:   true,
	domain.TestTypeMinorWorks:        true,
	domain.TestTypePortableAppliance: true,
}

func (ts *testService) Create(ctx context.Context, in CreateTestInput) (*domain.Test, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument("TestService.Create", "tenant context required")
	}
	if !validTestTypes[in.Type] {
		return nil, faults.InvalidArgument("TestService.Create", fmt.Sprintf("unknown test type %q", in.Type))
	}
	if in.PremisesType == "" {
		in.PremisesType = domain.PremisesDomestic
	}
	if in.NextInspectionMonths != nil && *in.NextInspectionMonths <= 0 {
		return nil, faults.InvalidArgument("TestService.Create", "next_inspection_months must be positive")
	}

	test := &domain.Test{
		TenantID:              rd.TenantID,
		Type:                  in.Type,
		Status:                domain.StatusDraft,
		PremisesType:          in.PremisesType,
		NextInspectionMonths:  in.NextInspectionMonths,
		ClientName:            strings.TrimSpace(in.ClientName),
		ClientAddress:         strings.TrimSpace(in.ClientAddress),
		InstallationAddress:   strings.TrimSpace(in.InstallationAddress),
		Description:           in.Description,
		ExtentOfInspection:    in.ExtentOfInspection,
		AgreedLimitations:     in.AgreedLimitations,
		InspectorName:         strings.TrimSpace(in.InspectorName),
		InspectorRegistration: strings.TrimSpace(in.InspectorRegistration),
		DesignerName:          strings.TrimSpace(in.DesignerName),
		DesignerRegistration:  strings.TrimSpace(in.DesignerRegistration),
	}

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := ts.testRepo.Create(ctx, tx, test)
		if err != nil {
			return err
		}
		if len(in.Circuits) == 0 {
			return nil
		}
		circuits := make([]*domain.Circuit, 0, len(in.Circuits))
		for i, pc := range in.Circuits {
			if strings.TrimSpace(pc.Reference) == "" {
				return faults.InvalidArgument("TestService.Create", fmt.Sprintf("circuit %d missing reference", i+1))
			}
			voltage := pc.NominalVoltage
			if voltage == 0 {
				voltage = 230
			}
			circuits = append(circuits, &domain.Circuit{
				TenantID:               rd.TenantID,
				TestID:                 created.ID,
				Position:               i + 1,
				Reference:              strings.TrimSpace(pc.Reference),
				Location:               pc.Location,
				Class:                  pc.Class,
				ProtectiveDeviceType:   pc.ProtectiveDeviceType,
				ProtectiveDeviceRating: pc.ProtectiveDeviceRating,
				NominalVoltage:         voltage,
				ConductorSize:          pc.ConductorSize,
				Verdict:                domain.VerdictNotTested,
			})
		}
		_, err = ts.circuitRepo.CreateBatch(ctx, tx, circuits)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ts.Get(ctx, test.ID)
}

func (ts *testService) Get(ctx context.Context, testID uuid.UUID) (*domain.Test, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument("TestService.Get", "tenant context required")
	}
	return ts.testRepo.GetByID(ctx, nil, rd.TenantID, testID)
}

func (ts *testService) List(ctx context.Context) ([]*domain.Test, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument("TestService.List", "tenant context required")
	}
	return ts.testRepo.List(ctx, nil, rd.TenantID)
}

func (ts *testService) Schedule(ctx context.Context, testID uuid.UUID) (*domain.Test, error) {
	return ts.transition(ctx, "TestService.Schedule", testID, domain.StatusScheduled)
}

func (ts *testService) Start(ctx context.Context, testID uuid.UUID) (*domain.Test, error) {
	return ts.transition(ctx, "TestService.Start", testID, domain.StatusInProgress)
}

func (ts *testService) transition(ctx context.Context, op string, testID uuid.UUID, to domain.TestStatus) (*domain.Test, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument(op, "tenant context required")
	}

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status, err := ts.testRepo.GetStatus(ctx, tx, rd.TenantID, testID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(status, to) {
			return faults.PreconditionFailed(op, fmt.Sprintf("cannot move test from %s to %s", status, to))
		}
		return ts.testRepo.UpdateStatus(ctx, tx, rd.TenantID, testID, to)
	})
	if err != nil {
		return nil, err
	}
	return ts.Get(ctx, testID)
}

// Complete is the only path into the terminal status. It enforces the lifecycle
// transition, the coverage rule for wired-installation test types, and freezes
// the supplied outcome and checklist.
func (ts *testService) Complete(ctx context.Context, testID uuid.UUID, in CompleteTestInput) (*domain.Test, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument("TestService.Complete", "tenant context required")
	}
	switch in.Outcome {
	case domain.OutcomeSatisfactory, domain.OutcomeUnsatisfactory, domain.OutcomeRequiresImprovement:
	default:
		return nil, faults.InvalidArgument("TestService.Complete", fmt.Sprintf("unknown outcome %q", in.Outcome))
	}

	completionDate := time.Now().UTC()
	if in.CompletionDate != nil {
		completionDate = in.CompletionDate.UTC()
	}

	var checklist []byte
	if len(in.Checklist) > 0 {
		raw, err := json.Marshal(in.Checklist)
		if err != nil {
			return nil, faults.InvalidArgument("TestService.Complete", "checklist not serializable")
		}
		checklist = raw
	}

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		test, err := ts.testRepo.GetByID(ctx, tx, rd.TenantID, testID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(test.Status, domain.StatusCompleted) {
			return faults.PreconditionFailed("TestService.Complete", fmt.Sprintf("cannot complete test in status %s", test.Status))
		}
		if err := checkCoverage(test); err != nil {
			return err
		}
		return ts.testRepo.Complete(ctx, tx, rd.TenantID, testID, in.Outcome, completionDate, checklist)
	})
	if err != nil {
		return nil, err
	}

	completed, err := ts.Get(ctx, testID)
	if err != nil {
		return nil, err
	}
	ts.publishCompletedEvent(ctx, rd.TenantID, completed)
	return completed, nil
}

// checkCoverage rejects completion while any circuit remains untested, except
// for portable appliance tests which carry no fixed wiring.
func checkCoverage(test *domain.Test) error {
	if !domain.RequiresFullCoverage(test.Type) {
		return nil
	}
	untested := []string{}
	for _, c := range test.Circuits {
		if c.Verdict == domain.VerdictNotTested {
			untested = append(untested, c.Reference)
		}
	}
	if len(untested) > 0 {
		return faults.PreconditionFailed("TestService.Complete",
			fmt.Sprintf("circuits not yet tested: %s", strings.Join(untested, ", ")))
	}
	return nil
}

// AddObservation records a coded finding. Observations belong to condition
// reports only and are frozen with the rest of the test at completion.
func (ts *testService) AddObservation(ctx context.Context, testID uuid.UUID, in AddObservationInput) (*domain.Observation, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument("TestService.AddObservation", "tenant context required")
	}
	if in.Code.Description() == "" {
		return nil, faults.InvalidArgument("TestService.AddObservation", fmt.Sprintf("unknown observation code %q", in.Code))
	}
	if strings.TrimSpace(in.Detail) == "" {
		return nil, faults.InvalidArgument("TestService.AddObservation", "observation detail required")
	}

	var obs *domain.Observation
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		test, err := ts.testRepo.GetByID(ctx, tx, rd.TenantID, testID)
		if err != nil {
			return err
		}
		if test.Type != domain.TestTypeConditionReport {
			return faults.PreconditionFailed("TestService.AddObservation", "observations apply to condition reports only")
		}
		if test.Status == domain.StatusCompleted {
			return faults.PreconditionFailed("TestService.AddObservation", "test already completed")
		}
		obs = &domain.Observation{
			TenantID:   rd.TenantID,
			TestID:     testID,
			Position:   len(test.Observations) + 1,
			Code:       in.Code,
			Detail:     strings.TrimSpace(in.Detail),
			Location:   in.Location,
			RecordedAt: time.Now().UTC(),
		}
		obs, err = ts.testRepo.AddObservation(ctx, tx, obs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return obs, nil
}

func (ts *testService) publishCompletedEvent(ctx context.Context, tenantID uuid.UUID, test *domain.Test) {
	if ts.bus == nil || test == nil {
		return
	}
	evt := domain.Event{
		Name:     domain.EventTestCompleted,
		TenantID: tenantID,
		Payload: map[string]any{
			"test_id":   test.ID,
			"test_type": test.Type,
			"outcome":   test.Outcome,
		},
	}
	if err := ts.bus.Publish(ctx, evt); err != nil {
		ts.log.Warn("event publish failed (ignored)", "event", evt.Name, "error", err)
	}
}
