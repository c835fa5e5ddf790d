package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-maker/internal/models"
	"alfredoptarigan/interview-maker/internal/repositories"
)

// SubmissionResult names the outcome of the two-step persist-then-debit
// pipeline. Persisted true with a non-nil DebitErr is the compensating
// window: the interview exists but its token debit was not confirmed.
type SubmissionResult struct {
	RecordID  uuid.UUID
	Persisted bool
	DebitErr  error
}

type SubmitterService interface {
	Submit(ctx context.Context, sessionID uuid.UUID, draft models.InterviewDraft) (*SubmissionResult, error)
}

type submitterService struct {
	persistenceURL string
	tokenDebitURL  string
	httpClient     *http.Client
	records        repositories.SubmissionRepository
}

func NewSubmitterService(
	persistenceURL string,
	tokenDebitURL string,
	timeout time.Duration,
	records repositories.SubmissionRepository,
) SubmitterService {
	return &submitterService{
		persistenceURL: persistenceURL,
		tokenDebitURL:  tokenDebitURL,
		httpClient:     &http.Client{Timeout: timeout},
		records:        records,
	}
}

type tokenDebitRequest struct {
	Email     string `json:"email"`
	TotalTime string `json:"total_time"`
}

// Submit runs exactly one persistence call and, only on its success, at most
// one debit call. It never retries internally; a retry is a fresh attempt
// from the workflow. The returned error is the persistence failure, if any;
// a debit failure travels inside the result because the attempt still
// succeeded from the submitter's point of view.
func (s *submitterService) Submit(ctx context.Context, sessionID uuid.UUID, draft models.InterviewDraft) (*SubmissionResult, error) {
	payload := models.BuildSubmissionPayload(draft)

	record := &models.SubmissionRecord{
		ID:        uuid.New(),
		SessionID: sessionID,
		JobID:     payload.JobID,
		CompanyID: payload.CompanyID,
		TotalTime: payload.TotalTime,
		Status:    models.SubmissionPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	ledgerOK := true
	if err := s.records.Create(record); err != nil {
		// The ledger is an observability channel; its failure must not block
		// the submission itself.
		log.Printf("⚠️  Failed to create submission record: %v\n", err)
		ledgerOK = false
	}

	if err := s.persistInterview(ctx, payload); err != nil {
		if ledgerOK {
			s.recordFailure(record.ID, models.SubmissionPersistFailed, err)
		}
		return nil, err
	}

	if ledgerOK {
		if err := s.records.UpdateStatus(record.ID, models.SubmissionPersisted); err != nil {
			log.Printf("⚠️  Failed to mark submission persisted: %v\n", err)
		}
	}

	result := &SubmissionResult{RecordID: record.ID, Persisted: true}

	if err := s.debitTokens(ctx, payload); err != nil {
		debitErr := &TokenDebitError{Err: err}
		if ledgerOK {
			s.recordFailure(record.ID, models.SubmissionDebitFailed, debitErr)
		}
		log.Printf("⚠️  %v (session %s, record %s)\n", debitErr, sessionID, record.ID)
		result.DebitErr = debitErr
		return result, nil
	}

	if ledgerOK {
		if err := s.records.UpdateStatus(record.ID, models.SubmissionDebited); err != nil {
			log.Printf("⚠️  Failed to mark submission debited: %v\n", err)
		}
	}

	return result, nil
}

func (s *submitterService) recordFailure(id uuid.UUID, status models.SubmissionStatus, cause error) {
	if err := s.records.UpdateFailure(id, status, cause.Error()); err != nil {
		log.Printf("⚠️  Failed to record submission failure: %v\n", err)
	}
}

// persistInterview posts the payload to the persistence endpoint. Success is
// any 2xx status with a parseable JSON body.
func (s *submitterService) persistInterview(ctx context.Context, payload models.SubmissionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &PersistenceError{Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.persistenceURL, bytes.NewBuffer(body))
	if err != nil {
		return &PersistenceError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &PersistenceError{Err: &NetworkError{Op: "persist interview", Err: err}}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &PersistenceError{Status: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PersistenceError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("endpoint returned %s", strings.TrimSpace(string(respBody))),
		}
	}

	if !json.Valid(respBody) {
		return &PersistenceError{Status: resp.StatusCode, Err: fmt.Errorf("response body is not valid JSON")}
	}

	log.Printf("💾 Interview persisted for job %d\n", payload.JobID)
	return nil
}

// debitTokens posts the debit request. Fire-and-confirm: the response body is
// logged, never otherwise consumed.
func (s *submitterService) debitTokens(ctx context.Context, payload models.SubmissionPayload) error {
	debit := tokenDebitRequest{
		Email:     payload.CompanyID,
		TotalTime: strconv.Itoa(payload.TotalTime),
	}

	body, err := json.Marshal(debit)
	if err != nil {
		return fmt.Errorf("failed to marshal debit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenDebitURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create debit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "debit tokens", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read debit response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("debit endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	log.Printf("🪙 Tokens updated: %s\n", strings.TrimSpace(string(respBody)))
	return nil
}
