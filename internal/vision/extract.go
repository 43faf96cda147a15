package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vbonduro/mealvision/internal/domain"
)

var (
	// ErrNoPayload means the reply contained no ```json fenced block.
	ErrNoPayload = errors.New("no structured data in response")
	// ErrMalformedPayload means a fenced block was found but did not decode
	// into the compact schema.
	ErrMalformedPayload = errors.New("malformed payload")
)

// fencedJSON matches the first ```json ... ``` block, across lines.
var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

type ExtractStatus int

const (
	ExtractOK ExtractStatus = iota
	ExtractNoPayload
	ExtractMalformedPayload
)

func (s ExtractStatus) String() string {
	switch s {
	case ExtractOK:
		return "ok"
	case ExtractNoPayload:
		return "no_payload"
	case ExtractMalformedPayload:
		return "malformed_payload"
	default:
		return fmt.Sprintf("ExtractStatus(%d)", int(s))
	}
}

// Extraction is the outcome of Extract. Analysis is non-nil only when Status
// is ExtractOK; Err is non-nil otherwise and wraps ErrNoPayload or
// ErrMalformedPayload.
type Extraction struct {
	Status   ExtractStatus
	Analysis *domain.AnalysisResult
	Err      error
}

// Extract recovers the nutrition breakdown from a raw model reply. It never
// panics and holds no state, so the same input always yields the same result.
func Extract(raw string) Extraction {
	block, ok := LocateBlock(raw)
	if !ok {
		return Extraction{Status: ExtractNoPayload, Err: ErrNoPayload}
	}

	analysis, err := ParsePayload(block)
	if err != nil {
		return Extraction{Status: ExtractMalformedPayload, Err: err}
	}
	return Extraction{Status: ExtractOK, Analysis: analysis}
}

// LocateBlock returns the body of the first ```json fenced block in raw.
func LocateBlock(raw string) (string, bool) {
	m := fencedJSON.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// compact* mirror the short-key schema requested in the prompt. Pointers let
// a missing key be told apart from a zero value.
type compactMacros struct {
	P   *float64 `json:"p"`
	C   *float64 `json:"c"`
	F   *float64 `json:"f"`
	Cal *float64 `json:"cal"`
}

type compactIngredient struct {
	Name   string         `json:"name"`
	Macros *compactMacros `json:"m"`
}

type compactFood struct {
	Name        string              `json:"name"`
	Ingredients []compactIngredient `json:"ingredients"`
}

type compactResult struct {
	Foods []compactFood  `json:"foods"`
	Total *compactMacros `json:"total"`
}

// ParsePayload decodes a fenced block body and maps it onto the normalized
// schema. Values are copied as reported; nothing is range-checked.
func ParsePayload(block string) (*domain.AnalysisResult, error) {
	var payload compactResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(block)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if payload.Foods == nil {
		return nil, fmt.Errorf("%w: missing foods", ErrMalformedPayload)
	}

	foods := make([]domain.Food, 0, len(payload.Foods))
	for i, f := range payload.Foods {
		if f.Ingredients == nil {
			return nil, fmt.Errorf("%w: foods[%d]: missing ingredients", ErrMalformedPayload, i)
		}
		ingredients := make([]domain.Ingredient, 0, len(f.Ingredients))
		for j, ing := range f.Ingredients {
			macros, err := ing.Macros.normalize()
			if err != nil {
				return nil, fmt.Errorf("%w: foods[%d].ingredients[%d]: %w", ErrMalformedPayload, i, j, err)
			}
			ingredients = append(ingredients, domain.Ingredient{Name: ing.Name, Macros: macros})
		}
		foods = append(foods, domain.Food{Name: f.Name, Ingredients: ingredients})
	}

	total, err := payload.Total.normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: total: %w", ErrMalformedPayload, err)
	}

	return &domain.AnalysisResult{Foods: foods, Total: total}, nil
}

func (m *compactMacros) normalize() (domain.NutritionInfo, error) {
	if m == nil {
		return domain.NutritionInfo{}, errors.New("missing macros")
	}
	if m.P == nil || m.C == nil || m.F == nil || m.Cal == nil {
		return domain.NutritionInfo{}, errors.New("incomplete macros")
	}
	return domain.NutritionInfo{
		Proteins: *m.P,
		Carbs:    *m.C,
		Fat:      *m.F,
		Calories: *m.Cal,
	}, nil
}
