package domain

import (
	"time"

	"github.com/google/uuid"
)

// ObservationCode ranks condition-report findings from most severe (C1, danger
// present) to least (FI, further investigation required).
type ObservationCode string

const (
	ObservationC1 ObservationCode = "C1"
	ObservationC2 ObservationCode = "C2"
	ObservationC3 ObservationCode = "C3"
	ObservationFI ObservationCode = "FI"
)

var observationRank = map[ObservationCode]int{
	ObservationC1: 0,
	ObservationC2: 1,
	ObservationC3: 2,
	ObservationFI: 3,
}

// SeverityRank orders codes for display; lower is more severe.
func (c ObservationCode) SeverityRank() int {
	r, ok := observationRank[c]
	if !ok {
		return len(observationRank)
	}
	return r
}

// Description returns the regulatory wording for a code.
func (c ObservationCode) Description() string {
	switch c {
	case ObservationC1:
		return "Danger present. Risk of injury. Immediate remedial action required"
	case ObservationC2:
		return "Potentially dangerous. Urgent remedial action required"
	case ObservationC3:
		return "Improvement recommended"
	case ObservationFI:
		return "Further investigation required without delay"
	default:
		return ""
	}
}

// Observation is a severity-coded finding recorded against a condition report.
type Observation struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	TestID     uuid.UUID       `gorm:"type:uuid;not null;index;column:test_id" json:"test_id"`
	Position   int             `gorm:"not null;default:0;column:position" json:"position"`
	Code       ObservationCode `gorm:"not null;column:code" json:"code"`
	Detail     string          `gorm:"not null;column:detail" json:"detail"`
	Location   string          `gorm:"column:location" json:"location"`
	RecordedAt time.Time       `gorm:"not null;default:now();column:recorded_at" json:"recorded_at"`
}

func (Observation) TableName() string {
	return "observation"
}
