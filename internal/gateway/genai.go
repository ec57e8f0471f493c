package gateway

import (
	"context"
	"fmt"

	"answergen/internal/models"

	"google.golang.org/genai"
)

// GenAIBackend calls Gemini through the official Go SDK.
type GenAIBackend struct {
	client *genai.Client
}

// NewGenAIBackend creates the SDK client. baseURL may be empty.
func NewGenAIBackend(ctx context.Context, apiKey, baseURL string) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIBackend{client: client}, nil
}

func (b *GenAIBackend) Name() string { return "genai" }

func (b *GenAIBackend) GenerateText(ctx context.Context, model string, req models.GenerationRequest) (string, error) {
	contents, err := buildContents(req)
	if err != nil {
		return "", err
	}

	resp, err := b.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}
	return resp.Text(), nil
}

// buildContents returns the prompt alone, or the prompt followed by an inline
// data part when an image is attached.
func buildContents(req models.GenerationRequest) ([]*genai.Content, error) {
	if req.Image == nil {
		return genai.Text(req.PromptText), nil
	}

	data, err := req.Image.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	parts := []*genai.Part{
		genai.NewPartFromText(req.PromptText),
		genai.NewPartFromBytes(data, req.Image.MimeType),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}
