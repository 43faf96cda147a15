package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/mealvision/internal/config"
	"github.com/vbonduro/mealvision/internal/logging"
	"github.com/vbonduro/mealvision/internal/service"
	"github.com/vbonduro/mealvision/internal/vision"
	claudevision "github.com/vbonduro/mealvision/internal/vision/claude"
	geminivision "github.com/vbonduro/mealvision/internal/vision/gemini"
	ollamavision "github.com/vbonduro/mealvision/internal/vision/ollama"
	openaivision "github.com/vbonduro/mealvision/internal/vision/openai"
	"github.com/vbonduro/mealvision/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := newCompleter(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize vision backend", "backend", cfg.VisionBackend, "error", err)
		return
	}

	mealService := service.NewMealService(model, logger)
	server := web.NewServer(mealService, logger)

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newCompleter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (vision.Completer, error) {
	switch cfg.VisionBackend {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required when VISION_BACKEND=openai")
		}
		logger.Info("using OpenAI vision backend", "model", cfg.OpenAIModel)
		return openaivision.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL), nil
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, errors.New("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
		}
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeCompleter(cfg.ClaudeAPIKey, cfg.ClaudeModel), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required when VISION_BACKEND=gemini")
		}
		logger.Info("using Gemini vision backend", "model", cfg.GeminiModel)
		completer, err := geminivision.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			return nil, err
		}
		return completer, nil
	case "ollama":
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaCompleter(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown vision backend %q", cfg.VisionBackend)
	}
}
