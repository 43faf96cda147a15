package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/vbonduro/mealvision/internal/vision"
)

// GeminiCompleter implements vision.Completer with the Gemini API. The detail
// hint is mapped onto the media resolution setting.
type GeminiCompleter struct {
	genAIClient *genai.Client
	model       string
	httpClient  *http.Client
}

// NewGeminiCompleter creates the underlying genai client. An empty baseURL
// keeps the SDK default endpoint.
func NewGeminiCompleter(ctx context.Context, apiKey, model, baseURL string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiCompleter{
		genAIClient: client,
		model:       model,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// mediaResolution maps a detail hint to Gemini's setting. "auto" and unknown
// values leave the choice to the model.
func mediaResolution(d vision.Detail) genai.MediaResolution {
	switch d {
	case vision.DetailLow:
		return genai.MediaResolutionLow
	case vision.DetailHigh:
		return genai.MediaResolutionHigh
	default:
		return ""
	}
}

func (c *GeminiCompleter) Complete(ctx context.Context, p vision.Prompt) (string, error) {
	img, err := vision.LoadImage(ctx, c.httpClient, p.Image)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	parts := []*genai.Part{
		{
			InlineData: &genai.Blob{
				MIMEType: img.MIMEType,
				Data:     img.Data,
			},
		},
		genai.NewPartFromText(p.Text),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	temperature := float32(vision.Temperature)
	resp, err := c.genAIClient.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MediaResolution: mediaResolution(p.Detail),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	return resp.Text(), nil
}
