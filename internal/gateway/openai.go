package gateway

import (
	"context"
	"fmt"

	"answergen/internal/models"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIBackend talks to Gemini through its OpenAI-compatible endpoint.
type OpenAIBackend struct {
	client openai.Client
}

func NewOpenAIBackend(apiKey, baseURL string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	// One submission is one request; no client-side retries.
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return &OpenAIBackend{client: client}, nil
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) GenerateText(ctx context.Context, model string, req models.GenerationRequest) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    model,
		Messages: []openai.ChatCompletionMessageParamUnion{userMessage(req)},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func userMessage(req models.GenerationRequest) openai.ChatCompletionMessageParamUnion {
	if req.Image == nil {
		return openai.UserMessage(req.PromptText)
	}
	return openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.PromptText),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: req.Image.DataURL(),
		}),
	})
}
