package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-maker/internal/models"
)

type recordingQueue struct {
	jobs []Job
}

func (q *recordingQueue) Enqueue(job Job) {
	q.jobs = append(q.jobs, job)
}

func (q *recordingQueue) pop(t *testing.T) Job {
	t.Helper()
	require.NotEmpty(t, q.jobs)
	job := q.jobs[len(q.jobs)-1]
	q.jobs = q.jobs[:len(q.jobs)-1]
	return job
}

type fakeWorkflowGenerator struct {
	result *GenerationResult
	err    error
	calls  int
}

func (f *fakeWorkflowGenerator) Generate(_ context.Context, _ models.InterviewDraft) (*GenerationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type submitOutcome struct {
	result *SubmissionResult
	err    error
}

type fakeWorkflowSubmitter struct {
	outcomes []submitOutcome
	calls    int
	drafts   []models.InterviewDraft
}

func (f *fakeWorkflowSubmitter) Submit(_ context.Context, _ uuid.UUID, draft models.InterviewDraft) (*SubmissionResult, error) {
	f.drafts = append(f.drafts, draft)
	outcome := f.outcomes[f.calls]
	f.calls++
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.result, nil
}

func newTestWorkflow(gen GeneratorService, sub SubmitterService) (*WorkflowManager, *recordingQueue) {
	m := NewWorkflowManager(gen, sub)
	q := &recordingQueue{}
	m.SetQueue(q)
	return m, q
}

func testSeed() models.JobSeed {
	return models.JobSeed{
		JobID:          42,
		CompanyID:      "acme@example.com",
		JobTitle:       "Backend Developer",
		JobDescription: "Go services",
		Experience:     "3 years",
	}
}

// readyCustomSession drives a custom session to the edge of previewing with
// marks [10, 20] and two filled question pairs.
func readyCustomSession(t *testing.T, m *WorkflowManager) uuid.UUID {
	t.Helper()

	session, err := m.CreateSession(models.KindCustom, testSeed())
	require.NoError(t, err)
	id := session.ID

	_, err = m.AddMark(id)
	require.NoError(t, err)
	_, err = m.SetMark(id, 1, 20)
	require.NoError(t, err)
	_, err = m.AddQuestion(id)
	require.NoError(t, err)

	for i, qa := range [][2]string{
		{"What is a goroutine?", "A lightweight thread managed by the runtime."},
		{"Explain channels.", "Typed conduits between goroutines."},
	} {
		_, err = m.SetQuestion(id, i, "question", qa[0])
		require.NoError(t, err)
		_, err = m.SetQuestion(id, i, "answer", qa[1])
		require.NoError(t, err)
	}

	return id
}

func TestCreateSessionStates(t *testing.T) {
	m, _ := newTestWorkflow(&fakeWorkflowGenerator{}, &fakeWorkflowSubmitter{})

	session, err := m.CreateSession("", testSeed())
	require.NoError(t, err)
	assert.Equal(t, models.StateSelection, session.State)

	session, err = m.ChooseKind(session.ID, models.KindAI)
	require.NoError(t, err)
	assert.Equal(t, models.StateDraftingAI, session.State)

	// Kind is chosen; choosing again is not a selection-state operation.
	_, err = m.ChooseKind(session.ID, models.KindCustom)
	var transitionErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)

	_, err = m.CreateSession("quiz", testSeed())
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	direct, err := m.CreateSession(models.KindCustom, testSeed())
	require.NoError(t, err)
	assert.Equal(t, models.StateDraftingCustom, direct.State)
	assert.Equal(t, 42, direct.Draft.JobID)
}

func TestCustomFlowSubmitsSuccessfully(t *testing.T) {
	submitter := &fakeWorkflowSubmitter{outcomes: []submitOutcome{
		{result: &SubmissionResult{RecordID: uuid.New(), Persisted: true}},
	}}
	m, q := newTestWorkflow(&fakeWorkflowGenerator{}, submitter)

	id := readyCustomSession(t, m)

	session, err := m.RequestPreview(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatePreviewing, session.State)

	summary := SummarizeDraft(session.Draft)
	assert.Equal(t, 30, summary.TotalMarks)
	assert.Equal(t, 2, summary.NumQuestions)

	session, err = m.StartSubmission(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSubmitting, session.State)

	m.RunJob(context.Background(), q.pop(t))

	session, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSucceeded, session.State)
	assert.Empty(t, session.DebitError)
	assert.Equal(t, 1, submitter.calls)
}

func TestCustomPreviewGuards(t *testing.T) {
	m, _ := newTestWorkflow(&fakeWorkflowGenerator{}, &fakeWorkflowSubmitter{})

	session, err := m.CreateSession(models.KindCustom, testSeed())
	require.NoError(t, err)
	id := session.ID

	// The single default question row is still empty.
	_, err = m.RequestPreview(id)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "questions", validationErr.Field)

	_, err = m.SetQuestion(id, 0, "question", "q")
	require.NoError(t, err)
	_, err = m.SetQuestion(id, 0, "answer", "a")
	require.NoError(t, err)

	// One question against two marks: sequences out of alignment.
	_, err = m.AddMark(id)
	require.NoError(t, err)
	_, err = m.RequestPreview(id)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "marks", validationErr.Field)
}

func TestGenerationGuards(t *testing.T) {
	m, _ := newTestWorkflow(&fakeWorkflowGenerator{}, &fakeWorkflowSubmitter{})

	custom, err := m.CreateSession(models.KindCustom, testSeed())
	require.NoError(t, err)
	_, err = m.StartGeneration(custom.ID)
	var transitionErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)

	bare, err := m.CreateSession(models.KindAI, models.JobSeed{})
	require.NoError(t, err)
	_, err = m.StartGeneration(bare.ID)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "job_id", validationErr.Field)

	// Three questions requested against a single mark slot.
	seeded, err := m.CreateSession(models.KindAI, testSeed())
	require.NoError(t, err)
	_, err = m.StartGeneration(seeded.ID)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "marks", validationErr.Field)
}

func TestAIFlowGeneratesAndPreviews(t *testing.T) {
	generated := []models.Question{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}
	generator := &fakeWorkflowGenerator{result: &GenerationResult{
		Questions: generated,
		Summary:   &models.GenerationSummary{TotalTime: "30", NumQuestions: 2, TotalMarks: 15},
	}}
	m, q := newTestWorkflow(generator, &fakeWorkflowSubmitter{})

	session, err := m.CreateSession(models.KindAI, testSeed())
	require.NoError(t, err)
	id := session.ID

	_, err = m.SetField(id, "num_questions", "2")
	require.NoError(t, err)
	_, err = m.AddMark(id)
	require.NoError(t, err)
	_, err = m.SetMark(id, 1, 5)
	require.NoError(t, err)

	session, err = m.StartGeneration(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateGenerating, session.State)

	// The draft is locked while the call is in flight.
	_, err = m.SetField(id, "job_title", "changed")
	var transitionErr *InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)

	m.RunJob(context.Background(), q.pop(t))

	session, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatePreviewing, session.State)
	assert.Equal(t, generated, session.Draft.Questions)
	require.NotNil(t, session.Summary)
	assert.Equal(t, 15, session.Summary.TotalMarks)
}

func TestGenerationFormatErrorLeavesDraftUntouched(t *testing.T) {
	generator := &fakeWorkflowGenerator{err: &GenerationFormatError{Reason: "question count does not match the requested count"}}
	m, q := newTestWorkflow(generator, &fakeWorkflowSubmitter{})

	session, err := m.CreateSession(models.KindAI, testSeed())
	require.NoError(t, err)
	id := session.ID

	_, err = m.AddMark(id)
	require.NoError(t, err)
	_, err = m.AddMark(id)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = m.SetMark(id, i, 5)
		require.NoError(t, err)
	}

	before, err := m.Get(id)
	require.NoError(t, err)

	_, err = m.StartGeneration(id)
	require.NoError(t, err)

	m.RunJob(context.Background(), q.pop(t))

	after, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateDraftingAI, after.State)
	assert.NotEmpty(t, after.LastError)
	assert.Equal(t, before.Draft.Questions, after.Draft.Questions)
}

func TestStaleGenerationResultDropped(t *testing.T) {
	generator := &fakeWorkflowGenerator{result: &GenerationResult{
		Questions: []models.Question{{Question: "q", Answer: "a"}},
	}}
	m, q := newTestWorkflow(generator, &fakeWorkflowSubmitter{})

	session, err := m.CreateSession(models.KindAI, testSeed())
	require.NoError(t, err)
	id := session.ID

	_, err = m.SetField(id, "num_questions", "1")
	require.NoError(t, err)
	_, err = m.StartGeneration(id)
	require.NoError(t, err)
	job := q.pop(t)

	// The user backs out while the call is in flight.
	_, err = m.Cancel(id)
	require.NoError(t, err)

	m.RunJob(context.Background(), job)

	session, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSelection, session.State)
	assert.Equal(t, []models.Question{{}}, session.Draft.Questions)
}

func TestSubmissionFailureThenRetrySucceeds(t *testing.T) {
	submitter := &fakeWorkflowSubmitter{outcomes: []submitOutcome{
		{err: &PersistenceError{Status: 500, Err: errors.New("endpoint returned boom")}},
		{result: &SubmissionResult{RecordID: uuid.New(), Persisted: true}},
	}}
	m, q := newTestWorkflow(&fakeWorkflowGenerator{}, submitter)

	id := readyCustomSession(t, m)
	_, err := m.RequestPreview(id)
	require.NoError(t, err)

	_, err = m.StartSubmission(id)
	require.NoError(t, err)
	m.RunJob(context.Background(), q.pop(t))

	session, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateFailed, session.State)
	assert.NotEmpty(t, session.LastError)

	// Retry without re-entering a single field.
	_, err = m.StartSubmission(id)
	require.NoError(t, err)
	m.RunJob(context.Background(), q.pop(t))

	session, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSucceeded, session.State)
	assert.Equal(t, 2, submitter.calls)
	assert.Equal(t, submitter.drafts[0], submitter.drafts[1])
}

func TestDebitFailureStillSucceeds(t *testing.T) {
	submitter := &fakeWorkflowSubmitter{outcomes: []submitOutcome{
		{result: &SubmissionResult{
			RecordID:  uuid.New(),
			Persisted: true,
			DebitErr:  &TokenDebitError{Err: errors.New("debit endpoint returned status 503")},
		}},
	}}
	m, q := newTestWorkflow(&fakeWorkflowGenerator{}, submitter)

	id := readyCustomSession(t, m)
	_, err := m.RequestPreview(id)
	require.NoError(t, err)
	_, err = m.StartSubmission(id)
	require.NoError(t, err)

	m.RunJob(context.Background(), q.pop(t))

	session, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSucceeded, session.State)
	assert.NotEmpty(t, session.DebitError)
	assert.Empty(t, session.LastError)
}

func TestBackToEditingFromPreviewAndFailure(t *testing.T) {
	submitter := &fakeWorkflowSubmitter{outcomes: []submitOutcome{
		{err: &PersistenceError{Status: 500, Err: errors.New("boom")}},
	}}
	m, q := newTestWorkflow(&fakeWorkflowGenerator{}, submitter)

	id := readyCustomSession(t, m)
	_, err := m.RequestPreview(id)
	require.NoError(t, err)

	session, err := m.BackToEditing(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateDraftingCustom, session.State)

	_, err = m.RequestPreview(id)
	require.NoError(t, err)
	_, err = m.StartSubmission(id)
	require.NoError(t, err)
	m.RunJob(context.Background(), q.pop(t))

	session, err = m.BackToEditing(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateDraftingCustom, session.State)
}

func TestCancelResetsFromAnyState(t *testing.T) {
	m, _ := newTestWorkflow(&fakeWorkflowGenerator{}, &fakeWorkflowSubmitter{})

	id := readyCustomSession(t, m)
	_, err := m.RequestPreview(id)
	require.NoError(t, err)

	session, err := m.Cancel(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSelection, session.State)
	assert.Equal(t, models.InterviewKind(""), session.Kind)
	assert.Equal(t, []int{10}, session.Draft.Marks)
	// The seed survives the reset.
	assert.Equal(t, 42, session.Draft.JobID)
}

func TestDeleteForgetsSession(t *testing.T) {
	m, _ := newTestWorkflow(&fakeWorkflowGenerator{}, &fakeWorkflowSubmitter{})

	session, err := m.CreateSession(models.KindCustom, testSeed())
	require.NoError(t, err)

	require.NoError(t, m.Delete(session.ID))

	_, err = m.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, m.Delete(session.ID), ErrSessionNotFound)
}
