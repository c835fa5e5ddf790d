package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"alfredoptarigan/interview-maker/internal/models"
)

// GenerationResult is the validated output of one generation call. Questions
// is complete or absent, never partial.
type GenerationResult struct {
	Questions []models.Question
	Summary   *models.GenerationSummary
}

type GeneratorService interface {
	Generate(ctx context.Context, draft models.InterviewDraft) (*GenerationResult, error)
}

type generatorService struct {
	textGen       TextGenerator
	promptBuilder *PromptBuilder
}

func NewGeneratorService(textGen TextGenerator) GeneratorService {
	return &generatorService{
		textGen:       textGen,
		promptBuilder: NewPromptBuilder(),
	}
}

// generationResponse is the shape the model is instructed to return.
type generationResponse struct {
	Questions []models.GeneratedQuestion `json:"questions"`
	Summary   *models.GenerationSummary  `json:"summary"`
}

// Generate implements GeneratorService. Transport failures surface as
// NetworkError, unusable completions as GenerationFormatError; in both cases
// no questions are returned.
func (g *generatorService) Generate(ctx context.Context, draft models.InterviewDraft) (*GenerationResult, error) {
	prompt := g.promptBuilder.BuildInterviewPrompt(draft)

	response, err := g.textGen.GenerateText(ctx, prompt, 0.7)
	if err != nil {
		return nil, &NetworkError{Op: "generate questions", Err: err}
	}

	log.Printf("🤖 Generation response received: %d characters", len(response))

	return parseGeneration(response, draft.RequestedQuestionCount)
}

// parseGeneration validates a completion against the response contract. The
// questions key must be a non-empty array whose length matches the requested
// count; anything less is a format error with no partial result.
func parseGeneration(response string, requestedCount int) (*GenerationResult, error) {
	jsonStr := extractJSON(response)

	var parsed generationResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, &GenerationFormatError{Reason: "response is not valid JSON"}
	}

	if len(parsed.Questions) == 0 {
		return nil, &GenerationFormatError{Reason: "questions key missing or empty"}
	}

	if len(parsed.Questions) != requestedCount {
		return nil, &GenerationFormatError{
			Reason: "question count does not match the requested count",
		}
	}

	questions := make([]models.Question, len(parsed.Questions))
	for i, q := range parsed.Questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return nil, &GenerationFormatError{Reason: "question or answer text is empty"}
		}
		questions[i] = models.Question{Question: q.Question, Answer: q.Answer}
	}

	return &GenerationResult{
		Questions: questions,
		Summary:   parsed.Summary,
	}, nil
}

// extractJSON pulls the JSON object out of text that might contain markdown
// fences or surrounding prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
