package domain

import (
	"time"

	"github.com/google/uuid"
)

// Measurement is one recorded reading. Corrections replace the value through the
// same update path, which re-triggers validation; rows are never edited ad hoc.
type Measurement struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	CircuitID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_circuit_measurement,priority:1;column:circuit_id" json:"circuit_id"`
	Type           MeasurementType `gorm:"not null;uniqueIndex:uq_circuit_measurement,priority:2;column:measurement_type" json:"measurement_type"`
	Value          float64         `gorm:"not null;column:value" json:"value"`
	Unit           string          `gorm:"column:unit" json:"unit"`
	TestMultiplier int             `gorm:"not null;default:1;column:test_multiplier" json:"test_multiplier"`
	Notes          string          `gorm:"column:notes" json:"notes"`
	RecordedAt     time.Time       `gorm:"not null;default:now();column:recorded_at" json:"recorded_at"`
}

func (Measurement) TableName() string {
	return "measurement"
}
