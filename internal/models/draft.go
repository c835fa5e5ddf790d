package models

import (
	"fmt"
	"strconv"
)

const (
	MinTotalTimeMinutes = 5
	MaxTotalTimeMinutes = 120

	defaultTotalTimeMinutes = 30
	defaultQuestionCount    = 3
	defaultMarkValue        = 10
)

type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GeneratedQuestion is the transient shape returned by the generation service.
// It is consumed immediately into InterviewDraft.Questions; the marks value is
// display-only and never overrides the caller-supplied marks array.
type GeneratedQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Marks    int    `json:"marks,omitempty"`
}

type GenerationSummary struct {
	TotalTime    string `json:"total_time"`
	NumQuestions int    `json:"num_questions"`
	TotalMarks   int    `json:"total_marks"`
}

// JobSeed is the externally supplied job context a draft is prefilled from.
type JobSeed struct {
	JobID           int    `json:"job_id"`
	CompanyID       string `json:"company_id"`
	JobTitle        string `json:"job_title"`
	JobDescription  string `json:"job_description"`
	Experience      string `json:"experience"`
	TechnicalSkills string `json:"technical_skills"`
	SoftSkills      string `json:"soft_skills"`
}

// InterviewDraft is the in-progress interview definition. All mutation methods
// return a fresh value; the receiver is never modified, so a draft held by one
// goroutine can never be clobbered through an alias held by another.
type InterviewDraft struct {
	JobID                  int        `json:"job_id"`
	CompanyID              string     `json:"company_id"`
	Experience             string     `json:"experience"`
	JobTitle               string     `json:"job_title"`
	JobDescription         string     `json:"job_description"`
	ManagerApproval        bool       `json:"manager_approval"`
	Compulsory             bool       `json:"compulsory"`
	TotalTimeMinutes       int        `json:"total_time"`
	TechnicalSkills        string     `json:"technical_skills"`
	SoftSkills             string     `json:"soft_skills"`
	RequestedQuestionCount int        `json:"num_questions"`
	Marks                  []int      `json:"marks"`
	Questions              []Question `json:"questions"`
}

// NewDraft builds a draft prefilled from the job seed, with one default mark
// and one empty question row so the form always has an editable row.
func NewDraft(seed JobSeed) InterviewDraft {
	return InterviewDraft{
		JobID:                  seed.JobID,
		CompanyID:              seed.CompanyID,
		Experience:             seed.Experience,
		JobTitle:               seed.JobTitle,
		JobDescription:         seed.JobDescription,
		TotalTimeMinutes:       defaultTotalTimeMinutes,
		TechnicalSkills:        seed.TechnicalSkills,
		SoftSkills:             seed.SoftSkills,
		RequestedQuestionCount: defaultQuestionCount,
		Marks:                  []int{defaultMarkValue},
		Questions:              []Question{{}},
	}
}

func (d InterviewDraft) clone() InterviewDraft {
	out := d
	out.Marks = make([]int, len(d.Marks))
	copy(out.Marks, d.Marks)
	out.Questions = make([]Question, len(d.Questions))
	copy(out.Questions, d.Questions)
	return out
}

// Clone returns a deep copy of the draft.
func (d InterviewDraft) Clone() InterviewDraft {
	return d.clone()
}

// SetField updates a single named field from its string form and returns the
// new draft. Unknown names and malformed values are rejected with a
// ValidationError and the receiver is returned unchanged.
func (d InterviewDraft) SetField(name, value string) (InterviewDraft, error) {
	out := d.clone()

	switch name {
	case "job_id":
		id, err := strconv.Atoi(value)
		if err != nil {
			return d, &ValidationError{Field: name, Reason: "must be an integer"}
		}
		out.JobID = id
	case "company_id":
		out.CompanyID = value
	case "experience":
		out.Experience = value
	case "job_title":
		out.JobTitle = value
	case "job_description":
		out.JobDescription = value
	case "technical_skills":
		out.TechnicalSkills = value
	case "soft_skills":
		out.SoftSkills = value
	case "manager_approval", "compulsory":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return d, &ValidationError{Field: name, Reason: "must be a boolean"}
		}
		if name == "manager_approval" {
			out.ManagerApproval = b
		} else {
			out.Compulsory = b
		}
	case "total_time":
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes < MinTotalTimeMinutes || minutes > MaxTotalTimeMinutes {
			return d, &ValidationError{
				Field:  name,
				Reason: fmt.Sprintf("must be an integer between %d and %d", MinTotalTimeMinutes, MaxTotalTimeMinutes),
			}
		}
		out.TotalTimeMinutes = minutes
	case "num_questions":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return d, &ValidationError{Field: name, Reason: "must be a positive integer"}
		}
		out.RequestedQuestionCount = n
	default:
		return d, &ValidationError{Field: name, Reason: "unknown field"}
	}

	return out, nil
}

// SetMark replaces the mark at index with a positive value.
func (d InterviewDraft) SetMark(index, value int) (InterviewDraft, error) {
	if index < 0 || index >= len(d.Marks) {
		return d, &ValidationError{Field: "marks", Reason: "index out of range"}
	}
	if value < 1 {
		return d, &ValidationError{Field: "marks", Reason: "must be a positive integer"}
	}
	out := d.clone()
	out.Marks[index] = value
	return out, nil
}

// AddMark appends a mark slot with the default value.
func (d InterviewDraft) AddMark() InterviewDraft {
	out := d.clone()
	out.Marks = append(out.Marks, defaultMarkValue)
	return out
}

// RemoveMark drops the mark at index. Removing the last remaining mark is a
// silent no-op: the form always keeps at least one row.
func (d InterviewDraft) RemoveMark(index int) (InterviewDraft, error) {
	if index < 0 || index >= len(d.Marks) {
		return d, &ValidationError{Field: "marks", Reason: "index out of range"}
	}
	if len(d.Marks) <= 1 {
		return d, nil
	}
	out := d.clone()
	out.Marks = append(out.Marks[:index], out.Marks[index+1:]...)
	return out, nil
}

// SetQuestion updates the question or answer text of one question slot.
func (d InterviewDraft) SetQuestion(index int, field, value string) (InterviewDraft, error) {
	if index < 0 || index >= len(d.Questions) {
		return d, &ValidationError{Field: "questions", Reason: "index out of range"}
	}
	out := d.clone()
	switch field {
	case "question":
		out.Questions[index].Question = value
	case "answer":
		out.Questions[index].Answer = value
	default:
		return d, &ValidationError{Field: "questions", Reason: "field must be 'question' or 'answer'"}
	}
	return out, nil
}

// AddQuestion appends an empty question slot.
func (d InterviewDraft) AddQuestion() InterviewDraft {
	out := d.clone()
	out.Questions = append(out.Questions, Question{})
	return out
}

// RemoveQuestion drops the question at index. Removing the last remaining
// question is a silent no-op.
func (d InterviewDraft) RemoveQuestion(index int) (InterviewDraft, error) {
	if index < 0 || index >= len(d.Questions) {
		return d, &ValidationError{Field: "questions", Reason: "index out of range"}
	}
	if len(d.Questions) <= 1 {
		return d, nil
	}
	out := d.clone()
	out.Questions = append(out.Questions[:index], out.Questions[index+1:]...)
	return out, nil
}

// ReplaceQuestions swaps in a full question list wholesale. Generation output
// always arrives through here, never merged into existing slots.
func (d InterviewDraft) ReplaceQuestions(questions []Question) InterviewDraft {
	out := d.clone()
	out.Questions = make([]Question, len(questions))
	copy(out.Questions, questions)
	return out
}

// TotalMarks is the authoritative total, always recomputed from the array.
func (d InterviewDraft) TotalMarks() int {
	total := 0
	for _, m := range d.Marks {
		total += m
	}
	return total
}

// Aligned reports whether the question and mark sequences line up, the
// invariant required on entry to previewing.
func (d InterviewDraft) Aligned() bool {
	return len(d.Questions) == len(d.Marks)
}
