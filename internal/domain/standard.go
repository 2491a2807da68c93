package domain

import (
	"github.com/google/uuid"
)

// MeasurementType enumerates the electrical readings the engine understands.
type MeasurementType string

const (
	MeasurementContinuity      MeasurementType = "continuity"
	MeasurementInsulation      MeasurementType = "insulation_resistance"
	MeasurementEarthLoop       MeasurementType = "earth_loop_impedance"
	MeasurementRCDTripTime     MeasurementType = "rcd_trip_time"
	MeasurementSupplyVoltage   MeasurementType = "supply_voltage"
	MeasurementPolarity        MeasurementType = "polarity"
	MeasurementProspectiveFault MeasurementType = "prospective_fault_current"
)

// Standard is one immutable row of the regulatory standards table. Seeded and
// administered externally; read-only to this subsystem.
type Standard struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TableVersion    string          `gorm:"not null;column:table_version" json:"table_version" yaml:"table_version"`
	MeasurementType MeasurementType `gorm:"not null;index;column:measurement_type" json:"measurement_type" yaml:"measurement_type"`
	CircuitClass    *CircuitClass   `gorm:"column:circuit_class" json:"circuit_class,omitempty" yaml:"circuit_class,omitempty"`
	CircuitRating   *float64        `gorm:"column:circuit_rating" json:"circuit_rating,omitempty" yaml:"circuit_rating,omitempty"`
	MinAcceptable   *float64        `gorm:"column:min_acceptable" json:"min_acceptable,omitempty" yaml:"min_acceptable,omitempty"`
	MaxAcceptable   *float64        `gorm:"column:max_acceptable" json:"max_acceptable,omitempty" yaml:"max_acceptable,omitempty"`
	ReferenceLabel  string          `gorm:"not null;column:reference_label" json:"reference_label" yaml:"reference_label"`
}

func (Standard) TableName() string {
	return "standard"
}
