package vision

import (
	"context"
)

// Temperature is the decoding temperature every backend sends with a request.
const Temperature = 0.5

// Detail is the fidelity hint forwarded to the model. Values outside the
// known set are passed through untouched.
type Detail string

const (
	DetailAuto Detail = "auto"
	DetailLow  Detail = "low"
	DetailHigh Detail = "high"
)

// Language selects the language of names in the model's JSON answer.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
)

// AnalysisRequest is one meal photo to analyze. Image is a data URI or a URL.
type AnalysisRequest struct {
	Image       string
	Description string
	Detail      Detail
	Language    Language
}

// Prompt is everything a backend needs for one multimodal call.
type Prompt struct {
	Text   string
	Image  string
	Detail Detail
}

// Completer sends a prompt with its image to a multimodal model and returns
// the raw reply text. Errors from the provider are returned as-is (wrapped);
// implementations do not retry.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}
