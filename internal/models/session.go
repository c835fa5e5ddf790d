package models

// InterviewKind selects between the two drafting flows.
type InterviewKind string

const (
	KindAI     InterviewKind = "ai"
	KindCustom InterviewKind = "custom"
)

func (k InterviewKind) Valid() bool {
	return k == KindAI || k == KindCustom
}

// SessionState is the workflow lifecycle state of one interview-definition
// session.
type SessionState string

const (
	StateSelection      SessionState = "selection"
	StateDraftingAI     SessionState = "drafting_ai"
	StateDraftingCustom SessionState = "drafting_custom"
	StateGenerating     SessionState = "generating"
	StatePreviewing     SessionState = "previewing"
	StateSubmitting     SessionState = "submitting"
	StateSucceeded      SessionState = "succeeded"
	StateFailed         SessionState = "failed"
)

// Drafting reports whether the state accepts draft mutations.
func (s SessionState) Drafting() bool {
	return s == StateDraftingAI || s == StateDraftingCustom
}

// DraftingStateFor returns the drafting state for an interview kind.
func DraftingStateFor(kind InterviewKind) SessionState {
	if kind == KindAI {
		return StateDraftingAI
	}
	return StateDraftingCustom
}

// PreviewSummary holds the figures shown on the preview screen. It is derived
// from the draft on every read and never stored.
type PreviewSummary struct {
	TotalMarks   int `json:"total_marks"`
	NumQuestions int `json:"num_questions"`
	TotalTime    int `json:"total_time"`
}
