package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/mealvision/internal/domain"
	"github.com/vbonduro/mealvision/internal/logging"
	"github.com/vbonduro/mealvision/internal/vision"
)

// Recognition is what callers get back for one photo. Analysis is nil when no
// structured data could be extracted; Response always holds the raw reply.
type Recognition struct {
	Response string                 `json:"response"`
	Analysis *domain.AnalysisResult `json:"analysis"`
}

type MealService struct {
	model  vision.Completer
	logger *slog.Logger
}

func NewMealService(model vision.Completer, logger *slog.Logger) *MealService {
	return &MealService{
		model:  model,
		logger: logger,
	}
}

// NewRequest applies the inbound defaults: detail "low", language "en".
// Non-empty values are kept as given.
func NewRequest(image, description, detail, language string) vision.AnalysisRequest {
	if detail == "" {
		detail = string(vision.DetailLow)
	}
	if language == "" {
		language = string(vision.LanguageEnglish)
	}
	return vision.AnalysisRequest{
		Image:       image,
		Description: description,
		Detail:      vision.Detail(detail),
		Language:    vision.Language(language),
	}
}

// Recognize runs one photo through the model. A model error is returned
// wrapped; a reply without usable JSON is not an error and yields a
// Recognition with a nil Analysis.
func (s *MealService) Recognize(ctx context.Context, req vision.AnalysisRequest) (*Recognition, error) {
	logger := logging.FromContext(ctx, s.logger)
	logger.Info("meal recognition started",
		"detail", req.Detail,
		"language", req.Language,
		"has_description", req.Description != "",
		"inline_image", vision.IsDataURI(req.Image),
	)

	prompt := vision.BuildPrompt(req)

	raw, err := s.model.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	logger.Debug("model reply received", "bytes", len(raw))

	extraction := vision.Extract(raw)
	if extraction.Status != vision.ExtractOK {
		logger.Warn("no structured nutrition data in reply",
			"status", extraction.Status.String(),
			"error", extraction.Err,
		)
		return &Recognition{Response: raw}, nil
	}

	logger.Info("meal recognition complete",
		"foods_detected", len(extraction.Analysis.Foods),
		"total_calories", extraction.Analysis.Total.Calories,
	)
	return &Recognition{Response: raw, Analysis: extraction.Analysis}, nil
}
