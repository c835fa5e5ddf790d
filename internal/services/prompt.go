package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-maker/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildInterviewPrompt creates the single-shot instruction for question
// generation. The response contract is one JSON object with "questions" and
// "summary" keys; marks are assigned from the caller-supplied marks array so
// the draft's scoring stays authoritative.
func (pb *PromptBuilder) BuildInterviewPrompt(d models.InterviewDraft) string {
	marks := make([]string, len(d.Marks))
	for i, m := range d.Marks {
		marks[i] = fmt.Sprintf("%d", m)
	}

	return fmt.Sprintf(`You are an expert interviewer.
Generate a JSON object with two keys: "questions" and "summary".
- "questions" should be an array of %d objects. Each object must include:
    - "question": an interview question based on the details below,
    - "answer": a detailed expected answer,
    - "marks": assign the corresponding mark from the following marks array: [%s].
- "summary" should be an object containing:
    - "total_time": the total time for the interview (in minutes) as provided,
    - "num_questions": the total number of questions,
    - "total_marks": the sum of marks for all questions.
Use these details:
Job Title: %s
Job Description: %s
Experience Level: %s
Technical Skills: %s
Soft Skills: %s
Total Interview Time: %d minutes
Return only valid JSON.`,
		d.RequestedQuestionCount,
		strings.Join(marks, ", "),
		d.JobTitle,
		d.JobDescription,
		d.Experience,
		d.TechnicalSkills,
		d.SoftSkills,
		d.TotalTimeMinutes,
	)
}
