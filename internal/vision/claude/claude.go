package claude

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/mealvision/internal/vision"
)

// maxTokens comfortably fits the compact JSON for a plate with a dozen
// ingredients plus the model's surrounding prose.
const maxTokens = 1024

// ClaudeCompleter implements vision.Completer using the Anthropic Messages API.
// The detail hint has no Anthropic equivalent and is ignored.
type ClaudeCompleter struct {
	client     *anthropic.Client
	model      string
	httpClient *http.Client
}

func NewClaudeCompleter(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeCompleter {
	return &ClaudeCompleter{
		client:     anthropic.NewClient(apiKey, opts...),
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// buildMessages constructs the single user turn: the image first, then the
// instruction text.
func buildMessages(img *vision.ImageData, text string) []anthropic.Message {
	return []anthropic.Message{{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(img.MIMEType),
				img.Base64(),
			)),
			anthropic.NewTextMessageContent(text),
		},
	}}
}

func (c *ClaudeCompleter) Complete(ctx context.Context, p vision.Prompt) (string, error) {
	img, err := vision.LoadImage(ctx, c.httpClient, p.Image)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	temperature := float32(vision.Temperature)
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Messages:    buildMessages(img, p.Text),
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	return resp.GetFirstContentText(), nil
}

// normaliseMIME maps image MIME types to the values the Anthropic API accepts.
// Unknown types are coerced to jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
