package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-maker/internal/models"
)

// SubmissionRepository is the reconciliation ledger for submission attempts.
type SubmissionRepository interface {
	Create(record *models.SubmissionRecord) error
	FindByID(id uuid.UUID) (*models.SubmissionRecord, error)
	UpdateStatus(id uuid.UUID, status models.SubmissionStatus) error
	UpdateFailure(id uuid.UUID, status models.SubmissionStatus, errorMsg string) error
	FindDebitFailures(limit int) ([]models.SubmissionRecord, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(record *models.SubmissionRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create submission record: %w", err)
	}
	return nil
}

func (r *submissionRepository) FindByID(id uuid.UUID) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("submission record not found")
		}
		return nil, fmt.Errorf("failed to find submission record: %w", err)
	}
	return &record, nil
}

func (r *submissionRepository) UpdateStatus(id uuid.UUID, status models.SubmissionStatus) error {
	result := r.db.Model(&models.SubmissionRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update submission status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("submission record not found")
	}

	return nil
}

func (r *submissionRepository) UpdateFailure(id uuid.UUID, status models.SubmissionStatus, errorMsg string) error {
	result := r.db.Model(&models.SubmissionRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update submission failure: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("submission record not found")
	}

	return nil
}

// FindDebitFailures lists interviews persisted without a confirmed token
// debit, oldest first.
func (r *submissionRepository) FindDebitFailures(limit int) ([]models.SubmissionRecord, error) {
	var records []models.SubmissionRecord
	err := r.db.
		Where("status = ?", models.SubmissionDebitFailed).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find debit failures: %w", err)
	}

	return records, nil
}
