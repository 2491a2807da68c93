package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TestType selects the certificate family a test produces.
type TestType string

const (
	TestTypeInstallation     TestType = "eic"
	TestTypeConditionReport  TestType = "eicr"
	TestTypeMinorWorks       TestType = "minor_works"
	TestTypePortableAppliance TestType = "pat"
)

type TestStatus string

const (
	StatusDraft      TestStatus = "draft"
	StatusScheduled  TestStatus = "scheduled"
	StatusInProgress TestStatus = "in_progress"
	StatusCompleted  TestStatus = "completed"
)

// TestOutcome is the installation-wide result. It is an attested human judgment
// supplied at completion, not mechanically derived from circuit verdicts.
type TestOutcome string

const (
	OutcomeSatisfactory        TestOutcome = "satisfactory"
	OutcomeUnsatisfactory      TestOutcome = "unsatisfactory"
	OutcomeRequiresImprovement TestOutcome = "requires_improvement"
)

type PremisesType string

const (
	PremisesDomestic   PremisesType = "domestic"
	PremisesCommercial PremisesType = "commercial"
	PremisesIndustrial PremisesType = "industrial"
	PremisesOther      PremisesType = "other"
)

// Test is the top-level compliance record. Outcome is frozen the moment status
// transitions to completed and never recomputed afterwards.
type Test struct {
	ID                    uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID              uuid.UUID      `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	Type                  TestType       `gorm:"not null;column:test_type" json:"test_type"`
	Status                TestStatus     `gorm:"not null;default:'draft';column:status" json:"status"`
	Outcome               *TestOutcome   `gorm:"column:outcome" json:"outcome,omitempty"`
	PremisesType          PremisesType   `gorm:"not null;default:'domestic';column:premises_type" json:"premises_type"`
	NextInspectionMonths  *int           `gorm:"column:next_inspection_months" json:"next_inspection_months,omitempty"`
	ClientName            string         `gorm:"column:client_name" json:"client_name"`
	ClientAddress         string         `gorm:"column:client_address" json:"client_address"`
	InstallationAddress   string         `gorm:"column:installation_address" json:"installation_address"`
	Description           string         `gorm:"column:description" json:"description"`
	ExtentOfInspection    string         `gorm:"column:extent_of_inspection" json:"extent_of_inspection"`
	AgreedLimitations     string         `gorm:"column:agreed_limitations" json:"agreed_limitations"`
	InspectorName         string         `gorm:"column:inspector_name" json:"inspector_name"`
	InspectorRegistration string         `gorm:"column:inspector_registration" json:"inspector_registration"`
	DesignerName          string         `gorm:"column:designer_name" json:"designer_name"`
	DesignerRegistration  string         `gorm:"column:designer_registration" json:"designer_registration"`
	Checklist             datatypes.JSON `gorm:"column:checklist" json:"checklist,omitempty"`
	CompletionDate        *time.Time     `gorm:"column:completion_date" json:"completion_date,omitempty"`
	Circuits              []Circuit      `gorm:"foreignKey:TestID" json:"circuits,omitempty"`
	Observations          []Observation  `gorm:"foreignKey:TestID" json:"observations,omitempty"`
	CreatedAt             time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Test) TableName() string {
	return "test"
}

// ChecklistItem is one recorded schedule-of-inspections entry, stored as JSON on
// the test row.
type ChecklistItem struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Result   string `json:"result"`
	Notes    string `json:"notes,omitempty"`
}

var transitions = map[TestStatus][]TestStatus{
	StatusDraft:      {StatusScheduled, StatusInProgress},
	StatusScheduled:  {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
}

// CanTransition reports whether the lifecycle permits moving from one status to
// another. Completed is terminal; reopening is an out-of-scope administrative action.
func CanTransition(from, to TestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiresFullCoverage reports whether completing a test of this type demands
// that every circuit has been tested. Portable appliance tests carry no fixed
// wiring circuits and are exempt.
func RequiresFullCoverage(t TestType) bool {
	return t != TestTypePortableAppliance
}

// DefaultNextInspectionMonths returns the next-inspection interval for a
// premises type when the test record carries no explicit override.
func DefaultNextInspectionMonths(p PremisesType) int {
	switch p {
	case PremisesDomestic:
		return 120
	case PremisesCommercial:
		return 60
	default:
		return 12
	}
}
