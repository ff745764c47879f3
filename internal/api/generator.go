package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/codegate-io/codegate/internal/gate"
	"github.com/codegate-io/codegate/pkg/models"
)

// Common errors for artifact parsing.
var (
	// ErrNoJSON indicates the model response contained no JSON object.
	ErrNoJSON = errors.New("no JSON object found in response")
	// ErrMalformedArtifact indicates the JSON did not decode into an artifact.
	ErrMalformedArtifact = errors.New("malformed artifact in response")
	// ErrEmptyArtifact indicates the decoded artifact had no code.
	ErrEmptyArtifact = errors.New("artifact has no code")
)

// Generator produces code artifacts through the Messages API. It
// implements the gate.Generator contract.
type Generator struct {
	client    *Client
	maxTokens int64
}

// NewGenerator creates a generator backed by the given client.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client, maxTokens: 8192}
}

// Generate requests one artifact for the task, folding previous-attempt
// feedback into the prompt on retries.
func (g *Generator) Generate(ctx context.Context, req gate.Request) (*gate.Generation, error) {
	userPrompt := BuildGenerationPrompt(req.Task, req.Feedback, req.Attempt)

	resp, err := g.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.client.Model(),
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: generationSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("API call failed: %w", err)
	}

	g.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	artifact, err := ParseArtifact(text.String())
	if err != nil {
		return nil, err
	}

	return &gate.Generation{
		Artifact: artifact,
		Tokens:   resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}

// artifactPayload is the wire shape the generation prompt asks for.
type artifactPayload struct {
	FunctionName  string   `json:"function_name"`
	Code          string   `json:"code"`
	Explanation   string   `json:"explanation"`
	Dependencies  []string `json:"dependencies"`
	TestCode      string   `json:"test_code"`
	UsageExamples []string `json:"usage_examples"`
}

// ParseArtifact extracts the artifact JSON from a model response. The
// response may wrap the object in prose or markdown fences; the outermost
// braces delimit what gets decoded.
func ParseArtifact(response string) (*models.CodeArtifact, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("%w: %s", ErrNoJSON, truncate(response, 200))
	}

	var payload artifactPayload
	if err := json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	if strings.TrimSpace(payload.Code) == "" {
		return nil, ErrEmptyArtifact
	}

	return &models.CodeArtifact{
		FunctionName:  payload.FunctionName,
		Code:          payload.Code,
		Explanation:   payload.Explanation,
		Dependencies:  payload.Dependencies,
		TestCode:      payload.TestCode,
		UsageExamples: payload.UsageExamples,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
