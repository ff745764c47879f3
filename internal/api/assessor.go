package api

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/codegate-io/codegate/pkg/models"
)

// Common errors for assessment parsing.
var (
	// ErrMalformedAssessment indicates the response could not be parsed.
	ErrMalformedAssessment = errors.New("malformed assessment response")
	// ErrScoreOutOfRange indicates a score was outside the valid 0-10 range.
	ErrScoreOutOfRange = errors.New("score out of range (must be 0-10)")
	// ErrMissingScore indicates a required score line was not found.
	ErrMissingScore = errors.New("missing required score")
)

// Regular expressions for parsing assessment responses.
var (
	// scorePattern matches "SCORE: X" or "Score: X/10".
	scorePattern = regexp.MustCompile(`(?i)\bSCORE[:\s]+(\d+(?:\.\d+)?)(?:/10)?`)
	// maintainabilityPattern matches "MAINTAINABILITY: X" or "Maintainability: X/10".
	maintainabilityPattern = regexp.MustCompile(`(?i)MAINTAINABILITY[:\s]+(\d+(?:\.\d+)?)(?:/10)?`)
)

// Assessor scores artifacts through the Messages API. The scores are
// advisory: they are attached to the artifact for reporting and never
// affect the gate decision. It implements the gate.Assessor contract.
type Assessor struct {
	client    *Client
	maxTokens int64
}

// NewAssessor creates an assessor backed by the given client.
func NewAssessor(client *Client) *Assessor {
	return &Assessor{client: client, maxTokens: 1024}
}

// Assess requests quality and maintainability scores for an artifact.
func (a *Assessor) Assess(ctx context.Context, artifact *models.CodeArtifact) (*models.Assessment, int64, error) {
	userPrompt := BuildAssessmentPrompt(artifact.FunctionName, artifact.Code, artifact.TestCode)

	resp, err := a.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.client.Model(),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: assessmentSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("API call failed: %w", err)
	}

	a.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	assessment, err := ParseAssessment(text.String())
	if err != nil {
		return nil, 0, err
	}
	return assessment, resp.Usage.InputTokens + resp.Usage.OutputTokens, nil
}

// ParseAssessment extracts the two score lines from an assessment
// response. Both SCORE and MAINTAINABILITY must be present and within
// [0, 10].
func ParseAssessment(response string) (*models.Assessment, error) {
	if strings.TrimSpace(response) == "" {
		return nil, ErrMalformedAssessment
	}

	score, err := extractScore(scorePattern, response)
	if err != nil {
		return nil, err
	}
	maintainability, err := extractScore(maintainabilityPattern, response)
	if err != nil {
		return nil, err
	}

	return &models.Assessment{Score: score, Maintainability: maintainability}, nil
}

func extractScore(pattern *regexp.Regexp, response string) (float64, error) {
	matches := pattern.FindStringSubmatch(response)
	if len(matches) < 2 {
		return 0, ErrMissingScore
	}
	val, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, ErrMalformedAssessment
	}
	if val < 0 || val > 10 {
		return 0, ErrScoreOutOfRange
	}
	return val, nil
}
