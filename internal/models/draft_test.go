package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededDraft() InterviewDraft {
	return NewDraft(JobSeed{
		JobID:          42,
		CompanyID:      "acme@example.com",
		JobTitle:       "Backend Developer",
		JobDescription: "Build and run Go services",
		Experience:     "3 years",
	})
}

func TestNewDraftDefaults(t *testing.T) {
	d := seededDraft()

	assert.Equal(t, 42, d.JobID)
	assert.Equal(t, "acme@example.com", d.CompanyID)
	assert.Equal(t, 30, d.TotalTimeMinutes)
	assert.Equal(t, 3, d.RequestedQuestionCount)
	assert.Equal(t, []int{10}, d.Marks)
	require.Len(t, d.Questions, 1)
	assert.Equal(t, Question{}, d.Questions[0])
}

func TestSetField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
		check   func(t *testing.T, d InterviewDraft)
	}{
		{
			name: "job title", field: "job_title", value: "SRE",
			check: func(t *testing.T, d InterviewDraft) { assert.Equal(t, "SRE", d.JobTitle) },
		},
		{
			name: "total time in range", field: "total_time", value: "60",
			check: func(t *testing.T, d InterviewDraft) { assert.Equal(t, 60, d.TotalTimeMinutes) },
		},
		{
			name: "total time below minimum", field: "total_time", value: "4", wantErr: true,
		},
		{
			name: "total time above maximum", field: "total_time", value: "121", wantErr: true,
		},
		{
			name: "total time not a number", field: "total_time", value: "lots", wantErr: true,
		},
		{
			name: "manager approval", field: "manager_approval", value: "true",
			check: func(t *testing.T, d InterviewDraft) { assert.True(t, d.ManagerApproval) },
		},
		{
			name: "compulsory malformed", field: "compulsory", value: "yep", wantErr: true,
		},
		{
			name: "num questions", field: "num_questions", value: "5",
			check: func(t *testing.T, d InterviewDraft) { assert.Equal(t, 5, d.RequestedQuestionCount) },
		},
		{
			name: "num questions zero", field: "num_questions", value: "0", wantErr: true,
		},
		{
			name: "unknown field", field: "favourite_colour", value: "blue", wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := seededDraft()
			after, err := before.SetField(tt.field, tt.value)

			if tt.wantErr {
				require.Error(t, err)
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			tt.check(t, after)
		})
	}
}

func TestMutationsDoNotAliasReceiver(t *testing.T) {
	before := seededDraft()
	after := before.AddMark()
	after, err := after.SetMark(1, 20)
	require.NoError(t, err)

	after, err = after.SetQuestion(0, "question", "What is a goroutine?")
	require.NoError(t, err)

	assert.Equal(t, []int{10}, before.Marks)
	assert.Equal(t, Question{}, before.Questions[0])
	assert.Equal(t, []int{10, 20}, after.Marks)
	assert.Equal(t, "What is a goroutine?", after.Questions[0].Question)
}

func TestSetMark(t *testing.T) {
	d := seededDraft()

	updated, err := d.SetMark(0, 25)
	require.NoError(t, err)
	assert.Equal(t, []int{25}, updated.Marks)

	_, err = d.SetMark(0, 0)
	assert.Error(t, err)

	_, err = d.SetMark(3, 10)
	assert.Error(t, err)
}

func TestRemoveMarkKeepsAtLeastOne(t *testing.T) {
	d := seededDraft()

	// Removing the only mark is a silent no-op.
	after, err := d.RemoveMark(0)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, after.Marks)

	d = d.AddMark()
	after, err = d.RemoveMark(0)
	require.NoError(t, err)
	assert.Len(t, after.Marks, 1)

	_, err = d.RemoveMark(5)
	assert.Error(t, err)
}

func TestRemoveQuestionKeepsAtLeastOne(t *testing.T) {
	d := seededDraft()

	after, err := d.RemoveQuestion(0)
	require.NoError(t, err)
	assert.Len(t, after.Questions, 1)

	d = d.AddQuestion()
	after, err = d.RemoveQuestion(1)
	require.NoError(t, err)
	assert.Len(t, after.Questions, 1)
}

func TestSetQuestionFieldValidation(t *testing.T) {
	d := seededDraft()

	after, err := d.SetQuestion(0, "answer", "Use channels.")
	require.NoError(t, err)
	assert.Equal(t, "Use channels.", after.Questions[0].Answer)

	_, err = d.SetQuestion(0, "marks", "10")
	assert.Error(t, err)

	_, err = d.SetQuestion(2, "question", "oops")
	assert.Error(t, err)
}

func TestReplaceQuestionsIsWholesale(t *testing.T) {
	d := seededDraft()
	d, err := d.SetQuestion(0, "question", "original")
	require.NoError(t, err)

	incoming := []Question{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}
	after := d.ReplaceQuestions(incoming)

	require.Len(t, after.Questions, 2)
	assert.Equal(t, "q1", after.Questions[0].Question)
	assert.Equal(t, "original", d.Questions[0].Question)

	// The draft must not alias the caller's slice.
	incoming[0].Question = "mutated"
	assert.Equal(t, "q1", after.Questions[0].Question)
}

func TestTotalMarksRecomputed(t *testing.T) {
	d := seededDraft()
	d = d.AddMark()
	d, err := d.SetMark(1, 20)
	require.NoError(t, err)

	assert.Equal(t, 30, d.TotalMarks())

	d, err = d.SetMark(0, 15)
	require.NoError(t, err)
	assert.Equal(t, 35, d.TotalMarks())
}

func TestAligned(t *testing.T) {
	d := seededDraft()
	assert.True(t, d.Aligned())

	d = d.AddMark()
	assert.False(t, d.Aligned())

	d = d.AddQuestion()
	assert.True(t, d.Aligned())
}
