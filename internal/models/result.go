package models

// Request/response shapes for the session API.

type CreateSessionRequest struct {
	Kind InterviewKind `json:"kind"`
	Job  JobSeed       `json:"job"`
}

type ChooseKindRequest struct {
	Kind InterviewKind `json:"kind"`
}

type FieldUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type MarkUpdateRequest struct {
	Value int `json:"value"`
}

type QuestionUpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SessionResponse is the full session view returned by every session
// endpoint. Preview is present from previewing onwards; DebitError is set
// when the interview was persisted but its token debit failed.
type SessionResponse struct {
	ID         string             `json:"id"`
	Kind       InterviewKind      `json:"kind,omitempty"`
	State      SessionState       `json:"state"`
	Draft      InterviewDraft     `json:"draft"`
	Preview    *PreviewSummary    `json:"preview,omitempty"`
	Summary    *GenerationSummary `json:"generation_summary,omitempty"`
	Error      *string            `json:"error,omitempty"`
	DebitError *string            `json:"debit_error,omitempty"`
}
