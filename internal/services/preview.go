package services

import "alfredoptarigan/interview-maker/internal/models"

// SummarizeDraft derives the preview figures from the current draft. It is
// pure and recomputed on every read, so the preview can never show a stale
// total after an edit.
func SummarizeDraft(d models.InterviewDraft) models.PreviewSummary {
	return models.PreviewSummary{
		TotalMarks:   d.TotalMarks(),
		NumQuestions: len(d.Questions),
		TotalTime:    d.TotalTimeMinutes,
	}
}
