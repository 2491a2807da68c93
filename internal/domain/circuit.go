package domain

import (
	"time"

	"github.com/google/uuid"
)

// CircuitClass is a categorical tag for a wiring circuit, used to select the
// applicable numeric standard.
type CircuitClass string

const (
	CircuitClassRingFinal CircuitClass = "ring_final"
	CircuitClassRadial    CircuitClass = "radial"
	CircuitClassLighting  CircuitClass = "lighting"
	CircuitClassSocket    CircuitClass = "socket"
	CircuitClassCooker    CircuitClass = "cooker"
	CircuitClassShower    CircuitClass = "shower"
	CircuitClassOther     CircuitClass = "other"
)

// CircuitVerdict is derived from the stored measurement set. It is never set
// directly by a caller; the aggregator recomputes it on every mutation.
type CircuitVerdict string

const (
	VerdictSatisfactory   CircuitVerdict = "satisfactory"
	VerdictUnsatisfactory CircuitVerdict = "unsatisfactory"
	VerdictNotTested      CircuitVerdict = "not_tested"
)

type Circuit struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID             uuid.UUID      `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	TestID               uuid.UUID      `gorm:"type:uuid;not null;index;column:test_id" json:"test_id"`
	Position             int            `gorm:"not null;default:0;column:position" json:"position"`
	Reference            string         `gorm:"not null;column:reference" json:"reference"`
	Location             string         `gorm:"column:location" json:"location"`
	Class                CircuitClass   `gorm:"not null;column:circuit_class" json:"circuit_class"`
	ProtectiveDeviceType string         `gorm:"column:protective_device_type" json:"protective_device_type"`
	ProtectiveDeviceRating float64      `gorm:"column:protective_device_rating" json:"protective_device_rating"`
	NominalVoltage       float64        `gorm:"not null;default:230;column:nominal_voltage" json:"nominal_voltage"`
	ConductorSize        string         `gorm:"column:conductor_size" json:"conductor_size"`
	Verdict              CircuitVerdict `gorm:"not null;default:'not_tested';column:verdict" json:"verdict"`
	DefectNotes          string         `gorm:"column:defect_notes" json:"defect_notes"`
	Version              int            `gorm:"not null;default:0;column:version" json:"version"`
	Measurements         []Measurement  `gorm:"foreignKey:CircuitID" json:"measurements,omitempty"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Circuit) TableName() string {
	return "circuit"
}

// MeasurementByType returns the latest stored reading per type.
func (c *Circuit) MeasurementByType() map[MeasurementType]*Measurement {
	out := make(map[MeasurementType]*Measurement, len(c.Measurements))
	for i := range c.Measurements {
		m := &c.Measurements[i]
		out[m.Type] = m
	}
	return out
}
