package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-maker/internal/models"
)

// Session is one interview-definition workflow instance. Epoch counts draft
// generations: cancelling bumps it, and any async result tagged with an older
// epoch is dropped instead of mutating a draft the user abandoned.
type Session struct {
	ID         uuid.UUID
	Kind       models.InterviewKind
	State      models.SessionState
	Seed       models.JobSeed
	Draft      models.InterviewDraft
	Summary    *models.GenerationSummary
	LastError  string
	DebitError string
	Epoch      uint64
	CreatedAt  time.Time
}

func (s *Session) snapshot() Session {
	out := *s
	out.Draft = s.Draft.Clone()
	if s.Summary != nil {
		summary := *s.Summary
		out.Summary = &summary
	}
	return out
}

// JobQueue accepts asynchronous workflow jobs.
type JobQueue interface {
	Enqueue(job Job)
}

// WorkflowManager owns every live session and mediates which operations its
// state permits. Each session runs at most one external call at a time; the
// mutex only guards the registry shared across HTTP goroutines.
type WorkflowManager struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*Session
	generator GeneratorService
	submitter SubmitterService
	queue     JobQueue
}

func NewWorkflowManager(generator GeneratorService, submitter SubmitterService) *WorkflowManager {
	return &WorkflowManager{
		sessions:  make(map[uuid.UUID]*Session),
		generator: generator,
		submitter: submitter,
	}
}

// SetQueue attaches the worker queue. Wired once at startup, before any
// request is served.
func (m *WorkflowManager) SetQueue(queue JobQueue) {
	m.queue = queue
}

// CreateSession starts a workflow. With a kind it lands directly in the
// matching drafting state; without one it waits in selection.
func (m *WorkflowManager) CreateSession(kind models.InterviewKind, seed models.JobSeed) (Session, error) {
	state := models.StateSelection
	if kind != "" {
		if !kind.Valid() {
			return Session{}, &models.ValidationError{Field: "kind", Reason: "must be 'ai' or 'custom'"}
		}
		state = models.DraftingStateFor(kind)
	}

	session := &Session{
		ID:        uuid.New(),
		Kind:      kind,
		State:     state,
		Seed:      seed,
		Draft:     models.NewDraft(seed),
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session

	return session.snapshot(), nil
}

// ChooseKind moves a session from selection into drafting.
func (m *WorkflowManager) ChooseKind(id uuid.UUID, kind models.InterviewKind) (Session, error) {
	if !kind.Valid() {
		return Session{}, &models.ValidationError{Field: "kind", Reason: "must be 'ai' or 'custom'"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.State != models.StateSelection {
		return Session{}, &InvalidTransitionError{From: s.State, Action: "choose interview kind"}
	}

	s.Kind = kind
	s.State = models.DraftingStateFor(kind)
	s.LastError = ""

	return s.snapshot(), nil
}

// Get returns a point-in-time copy of the session.
func (m *WorkflowManager) Get(id uuid.UUID) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s.snapshot(), nil
}

// Cancel abandons the attempt from any state: back to selection, draft
// reseeded, epoch bumped so in-flight results land on the floor.
func (m *WorkflowManager) Cancel(id uuid.UUID) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	s.Kind = ""
	s.State = models.StateSelection
	s.Draft = models.NewDraft(s.Seed)
	s.Summary = nil
	s.LastError = ""
	s.DebitError = ""
	s.Epoch++

	return s.snapshot(), nil
}

// Delete forgets the session entirely.
func (m *WorkflowManager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Epoch++
	delete(m.sessions, id)
	return nil
}

// mutateDraft applies one draft-store operation under the drafting guard.
func (m *WorkflowManager) mutateDraft(id uuid.UUID, action string, op func(models.InterviewDraft) (models.InterviewDraft, error)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !s.State.Drafting() {
		return Session{}, &InvalidTransitionError{From: s.State, Action: action}
	}

	draft, err := op(s.Draft)
	if err != nil {
		return Session{}, err
	}

	s.Draft = draft
	return s.snapshot(), nil
}

func (m *WorkflowManager) SetField(id uuid.UUID, field, value string) (Session, error) {
	return m.mutateDraft(id, "edit field", func(d models.InterviewDraft) (models.InterviewDraft, error) {
		return d.SetField(field, value)
	})
}

func (m *WorkflowManager) SetMark(id uuid.UUID, index, value int) (Session, error) {
	return m.mutateDraft(id, "edit mark", func(d models.InterviewDraft) (models.InterviewDraft, error) {
		return d.SetMark(index, value)
	})
}

func (m *WorkflowManager) AddMark(id uuid.UUID) (Session, error) {
	return m.mutateDraft(id, "add mark", func(d models.InterviewDraft) (models.InterviewDraft, error) {
		return d.AddMark(), nil
	})
}

func (m *WorkflowManager) RemoveMark(id uuid.UUID, index int) (Session, error) {
	return m.mutateDraft(id, "remove mark", func(d models.InterviewDraft) (models.InterviewDraft, error) {
		return d.RemoveMark(index)
	})
}

func (m *WorkflowManager) SetQuestion(id uuid.UUID, index int, field, value string) (Session, error) {
	return m.mutateDraft(id, "edit question", func(d models.InterviewDraft) (models.InterviewDraft, error) {
		return d.SetQuestion(index, field, value)
	})
}

func (m *WorkflowManager) AddQuestion(id uuid.UUID) (Session, error) {
	return m.mutateDraft(id, "add question", func(d models.InterviewDraft) (models.InterviewDraft, error) {
		return d.AddQuestion(), nil
	})
}

func (m *WorkflowManager) RemoveQuestion(id uuid.UUID, index int) (Session, error) {
	return m.mutateDraft(id, "remove question", func(d models.InterviewDraft) (models.InterviewDraft, error) {
		return d.RemoveQuestion(index)
	})
}

// requiredGenerationFields checks the AI drafting form before generation may
// start. The marks array must line up with the requested count or the draft
// could never satisfy the previewing alignment invariant.
func requiredGenerationFields(d models.InterviewDraft) error {
	switch {
	case d.JobID <= 0:
		return &models.ValidationError{Field: "job_id", Reason: "required"}
	case strings.TrimSpace(d.CompanyID) == "":
		return &models.ValidationError{Field: "company_id", Reason: "required"}
	case strings.TrimSpace(d.JobTitle) == "":
		return &models.ValidationError{Field: "job_title", Reason: "required"}
	case strings.TrimSpace(d.JobDescription) == "":
		return &models.ValidationError{Field: "job_description", Reason: "required"}
	case strings.TrimSpace(d.Experience) == "":
		return &models.ValidationError{Field: "experience", Reason: "required"}
	case d.RequestedQuestionCount < 1:
		return &models.ValidationError{Field: "num_questions", Reason: "must be a positive integer"}
	case len(d.Marks) != d.RequestedQuestionCount:
		return &models.ValidationError{Field: "marks", Reason: "must have one mark per requested question"}
	}
	return nil
}

// StartGeneration kicks off the AI generation call. The session suspends in
// generating until the worker delivers the result.
func (m *WorkflowManager) StartGeneration(id uuid.UUID) (Session, error) {
	m.mu.Lock()

	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	if s.State != models.StateDraftingAI {
		state := s.State
		m.mu.Unlock()
		return Session{}, &InvalidTransitionError{From: state, Action: "generate questions"}
	}
	if err := requiredGenerationFields(s.Draft); err != nil {
		m.mu.Unlock()
		return Session{}, err
	}

	s.State = models.StateGenerating
	s.LastError = ""
	job := Job{SessionID: s.ID, Epoch: s.Epoch, Kind: JobGenerate}
	snap := s.snapshot()
	m.mu.Unlock()

	// Enqueue outside the lock: a full queue must never block workers that
	// need the registry to drain it.
	m.queue.Enqueue(job)

	return snap, nil
}

// RequestPreview moves a custom draft into previewing once every question
// and answer is filled and the sequences line up.
func (m *WorkflowManager) RequestPreview(id uuid.UUID) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.State != models.StateDraftingCustom {
		return Session{}, &InvalidTransitionError{From: s.State, Action: "preview"}
	}
	if !s.Draft.Aligned() {
		return Session{}, &models.ValidationError{Field: "marks", Reason: "must have one mark per question"}
	}
	for _, q := range s.Draft.Questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return Session{}, &models.ValidationError{Field: "questions", Reason: "every question and answer must be filled"}
		}
	}

	s.State = models.StatePreviewing
	s.LastError = ""

	return s.snapshot(), nil
}

// BackToEditing reopens the draft from previewing or after a failed
// submission.
func (m *WorkflowManager) BackToEditing(id uuid.UUID) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.State != models.StatePreviewing && s.State != models.StateFailed {
		return Session{}, &InvalidTransitionError{From: s.State, Action: "return to editing"}
	}

	s.State = models.DraftingStateFor(s.Kind)
	return s.snapshot(), nil
}

// StartSubmission confirms the preview and kicks off the persist-then-debit
// pipeline. Allowed again from failed: a retry reuses the same draft without
// re-entering any field.
func (m *WorkflowManager) StartSubmission(id uuid.UUID) (Session, error) {
	m.mu.Lock()

	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	if s.State != models.StatePreviewing && s.State != models.StateFailed {
		state := s.State
		m.mu.Unlock()
		return Session{}, &InvalidTransitionError{From: state, Action: "submit"}
	}
	if !s.Draft.Aligned() {
		m.mu.Unlock()
		return Session{}, &models.ValidationError{Field: "marks", Reason: "must have one mark per question"}
	}

	s.State = models.StateSubmitting
	s.LastError = ""
	job := Job{SessionID: s.ID, Epoch: s.Epoch, Kind: JobSubmit}
	snap := s.snapshot()
	m.mu.Unlock()

	m.queue.Enqueue(job)

	return snap, nil
}

// RunJob implements JobRunner.
func (m *WorkflowManager) RunJob(ctx context.Context, job Job) {
	switch job.Kind {
	case JobGenerate:
		m.runGeneration(ctx, job)
	case JobSubmit:
		m.runSubmission(ctx, job)
	default:
		log.Printf("⚠️  Unknown job kind %q for session %s\n", job.Kind, job.SessionID)
	}
}

// draftForJob snapshots the draft if the session is still in the expected
// state with the job's epoch.
func (m *WorkflowManager) draftForJob(job Job, expected models.SessionState) (models.InterviewDraft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[job.SessionID]
	if !ok || s.Epoch != job.Epoch || s.State != expected {
		return models.InterviewDraft{}, false
	}
	return s.Draft.Clone(), true
}

func (m *WorkflowManager) runGeneration(ctx context.Context, job Job) {
	draft, ok := m.draftForJob(job, models.StateGenerating)
	if !ok {
		log.Printf("🗑️  Dropping stale generation job for session %s\n", job.SessionID)
		return
	}

	result, err := m.generator.Generate(ctx, draft)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[job.SessionID]
	if !ok || s.Epoch != job.Epoch || s.State != models.StateGenerating {
		log.Printf("🗑️  Dropping stale generation result for session %s\n", job.SessionID)
		return
	}

	if err != nil {
		// Format and network failures both leave the draft untouched; the
		// user retries or switches to manual entry from the AI form.
		s.State = models.StateDraftingAI
		s.LastError = err.Error()
		log.Printf("❌ Generation failed for session %s: %v\n", s.ID, err)
		return
	}

	s.Draft = s.Draft.ReplaceQuestions(result.Questions)
	s.Summary = result.Summary
	s.State = models.StatePreviewing
	log.Printf("✅ Generated %d questions for session %s\n", len(result.Questions), s.ID)
}

func (m *WorkflowManager) runSubmission(ctx context.Context, job Job) {
	draft, ok := m.draftForJob(job, models.StateSubmitting)
	if !ok {
		log.Printf("🗑️  Dropping stale submission job for session %s\n", job.SessionID)
		return
	}

	result, err := m.submitter.Submit(ctx, job.SessionID, draft)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[job.SessionID]
	if !ok || s.Epoch != job.Epoch || s.State != models.StateSubmitting {
		log.Printf("🗑️  Dropping stale submission result for session %s\n", job.SessionID)
		return
	}

	if err != nil {
		s.State = models.StateFailed
		s.LastError = err.Error()
		log.Printf("❌ Submission failed for session %s: %v\n", s.ID, err)
		return
	}

	s.State = models.StateSucceeded
	if result.DebitErr != nil {
		// Compensating window: the interview exists, the debit did not
		// confirm. Success for the submitter, a ledger row for everyone else.
		s.DebitError = result.DebitErr.Error()
	}
	log.Printf("✅ Submission succeeded for session %s\n", s.ID)
}
