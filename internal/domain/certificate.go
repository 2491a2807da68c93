package domain

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is an immutable output artifact. Regeneration appends a new row
// rather than mutating an old one; the history is the audit trail.
type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_cert_number,priority:1;column:tenant_id" json:"tenant_id"`
	TestID         uuid.UUID `gorm:"type:uuid;not null;index;column:test_id" json:"test_id"`
	Type           TestType  `gorm:"not null;uniqueIndex:uq_cert_number,priority:2;column:certificate_type" json:"certificate_type"`
	Sequence       int       `gorm:"not null;uniqueIndex:uq_cert_number,priority:3;column:sequence" json:"sequence"`
	Number         string    `gorm:"not null;column:certificate_number" json:"certificate_number"`
	IssueDate      time.Time `gorm:"not null;column:issue_date" json:"issue_date"`
	StorageLocator string    `gorm:"not null;column:storage_locator" json:"storage_locator"`
	SizeBytes      int64     `gorm:"not null;column:size_bytes" json:"size_bytes"`
	GeneratedBy    uuid.UUID `gorm:"type:uuid;column:generated_by" json:"generated_by"`
	GeneratedAt    time.Time `gorm:"not null;default:now();column:generated_at" json:"generated_at"`
}

func (Certificate) TableName() string {
	return "certificate"
}
