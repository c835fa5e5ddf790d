package models

import "strconv"

// Attribute wrappers matching the persistence endpoint's item schema.
type NumberAttr struct {
	N string `json:"N"`
}

type StringAttr struct {
	S string `json:"S"`
}

type QuestionAttrMap struct {
	Question StringAttr `json:"question"`
	Answer   StringAttr `json:"answer"`
}

type QuestionAttr struct {
	M QuestionAttrMap `json:"M"`
}

// SubmissionPayload is the immutable projection of a draft sent to the
// persistence endpoint. It is built once per submission attempt and never
// mutated afterwards.
type SubmissionPayload struct {
	JobID           int            `json:"job_id"`
	CompanyID       string         `json:"company_id"`
	Experience      string         `json:"experience"`
	JobTitle        string         `json:"job_title"`
	JobDescription  string         `json:"job_description"`
	ManagerApproval int            `json:"manager_approval"`
	Compulsory      int            `json:"compulsory"`
	Marks           []NumberAttr   `json:"marks"`
	Questions       []QuestionAttr `json:"questions"`
	TotalTime       int            `json:"total_time"`
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BuildSubmissionPayload projects a finalized draft into the persistence
// schema.
func BuildSubmissionPayload(d InterviewDraft) SubmissionPayload {
	marks := make([]NumberAttr, len(d.Marks))
	for i, m := range d.Marks {
		marks[i] = NumberAttr{N: strconv.Itoa(m)}
	}

	questions := make([]QuestionAttr, len(d.Questions))
	for i, q := range d.Questions {
		questions[i] = QuestionAttr{
			M: QuestionAttrMap{
				Question: StringAttr{S: q.Question},
				Answer:   StringAttr{S: q.Answer},
			},
		}
	}

	return SubmissionPayload{
		JobID:           d.JobID,
		CompanyID:       d.CompanyID,
		Experience:      d.Experience,
		JobTitle:        d.JobTitle,
		JobDescription:  d.JobDescription,
		ManagerApproval: boolToInt(d.ManagerApproval),
		Compulsory:      boolToInt(d.Compulsory),
		Marks:           marks,
		Questions:       questions,
		TotalTime:       d.TotalTimeMinutes,
	}
}
