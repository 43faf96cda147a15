package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/mealvision/internal/vision"
)

// OllamaCompleter implements vision.Completer against a local Ollama server.
// The detail hint is ignored; Ollama always sees the full image.
type OllamaCompleter struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaCompleter(host, model string) *OllamaCompleter {
	return &OllamaCompleter{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

func (c *OllamaCompleter) Complete(ctx context.Context, p vision.Prompt) (string, error) {
	img, err := vision.LoadImage(ctx, c.client, p.Image)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	payload, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  p.Text,
		Images:  []string{img.Base64()},
		Stream:  false,
		Options: generateOptions{Temperature: vision.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return respBody.Response, nil
}
