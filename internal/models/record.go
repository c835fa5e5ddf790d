package models

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionPending       SubmissionStatus = "pending"
	SubmissionPersistFailed SubmissionStatus = "persist_failed"
	SubmissionPersisted     SubmissionStatus = "persisted"
	SubmissionDebited       SubmissionStatus = "debited"
	SubmissionDebitFailed   SubmissionStatus = "debit_failed"
)

// SubmissionRecord is the reconciliation ledger row for one submission
// attempt. A debit_failed row marks an interview that was persisted without
// its token debit being confirmed; there is no compensating rollback, so
// these rows are what reconciliation works from.
type SubmissionRecord struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID    uuid.UUID        `gorm:"type:uuid;not null" json:"session_id"`
	JobID        int              `gorm:"not null" json:"job_id"`
	CompanyID    string           `gorm:"type:text;not null" json:"company_id"`
	TotalTime    int              `gorm:"not null" json:"total_time"`
	Status       SubmissionStatus `gorm:"not null;default:'pending'" json:"status"`
	ErrorMessage *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SubmissionRecord) TableName() string {
	return "submission_records"
}
