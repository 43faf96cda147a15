package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/mealvision/internal/domain"
)

const saladJSON = `{"foods":[{"name":"Salad","ingredients":[{"name":"Lettuce","m":{"p":1,"c":2,"f":0,"cal":15}}]}],"total":{"p":1,"c":2,"f":0,"cal":15}}`

func fenced(body string) string {
	return "Here is the breakdown:\n```json\n" + body + "\n```\nEnjoy your meal."
}

func TestExtractRoundTrip(t *testing.T) {
	got := Extract(fenced(saladJSON))

	require.Equal(t, ExtractOK, got.Status)
	require.NoError(t, got.Err)
	assert.Equal(t, &domain.AnalysisResult{
		Foods: []domain.Food{{
			Name: "Salad",
			Ingredients: []domain.Ingredient{{
				Name:   "Lettuce",
				Macros: domain.NutritionInfo{Proteins: 1, Carbs: 2, Fat: 0, Calories: 15},
			}},
		}},
		Total: domain.NutritionInfo{Proteins: 1, Carbs: 2, Fat: 0, Calories: 15},
	}, got.Analysis)
}

func TestExtractMapsEveryIngredient(t *testing.T) {
	raw := fenced(`{
  "foods": [
    {"name": "Rice bowl", "ingredients": [
      {"name": "Rice", "m": {"p": 4.3, "c": 45, "f": 0.4, "cal": 205}},
      {"name": "Egg", "m": {"p": 6, "c": 0.6, "f": 5, "cal": 72}}
    ]},
    {"name": "Tea", "ingredients": []}
  ],
  "total": {"p": 10.3, "c": 45.6, "f": 5.4, "cal": 277}
}`)

	got := Extract(raw)

	require.Equal(t, ExtractOK, got.Status)
	require.Len(t, got.Analysis.Foods, 2)
	rice := got.Analysis.Foods[0]
	assert.Equal(t, "Rice bowl", rice.Name)
	assert.Equal(t, domain.NutritionInfo{Proteins: 4.3, Carbs: 45, Fat: 0.4, Calories: 205}, rice.Ingredients[0].Macros)
	assert.Equal(t, domain.NutritionInfo{Proteins: 6, Carbs: 0.6, Fat: 5, Calories: 72}, rice.Ingredients[1].Macros)
	assert.Equal(t, "Tea", got.Analysis.Foods[1].Name)
	assert.Empty(t, got.Analysis.Foods[1].Ingredients)
	assert.NotNil(t, got.Analysis.Foods[1].Ingredients)
	assert.Equal(t, domain.NutritionInfo{Proteins: 10.3, Carbs: 45.6, Fat: 5.4, Calories: 277}, got.Analysis.Total)
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantStatus ExtractStatus
		wantErr    error
	}{
		{
			name:       "empty reply",
			raw:        "",
			wantStatus: ExtractNoPayload,
			wantErr:    ErrNoPayload,
		},
		{
			name:       "prose only",
			raw:        "I see a salad with lettuce, roughly 15 kcal.",
			wantStatus: ExtractNoPayload,
			wantErr:    ErrNoPayload,
		},
		{
			name:       "unlabelled fence",
			raw:        "```\n" + saladJSON + "\n```",
			wantStatus: ExtractNoPayload,
			wantErr:    ErrNoPayload,
		},
		{
			name:       "unterminated fence",
			raw:        "```json\n" + saladJSON,
			wantStatus: ExtractNoPayload,
			wantErr:    ErrNoPayload,
		},
		{
			name:       "invalid json",
			raw:        fenced(`{"foods": [ {"name": "Salad",, } ]`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "trailing comma",
			raw:        fenced(`{"foods": [], "total": {"p": 1, "c": 2, "f": 0, "cal": 15},}`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "empty block",
			raw:        "```json```",
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "ingredient without m",
			raw:        fenced(`{"foods":[{"name":"Salad","ingredients":[{"name":"Lettuce"}]}],"total":{"p":1,"c":2,"f":0,"cal":15}}`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "macros missing a key",
			raw:        fenced(`{"foods":[{"name":"Salad","ingredients":[{"name":"Lettuce","m":{"p":1,"c":2,"f":0}}]}],"total":{"p":1,"c":2,"f":0,"cal":15}}`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "missing total",
			raw:        fenced(`{"foods":[]}`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "missing foods",
			raw:        fenced(`{"total":{"p":1,"c":2,"f":0,"cal":15}}`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "food without ingredients",
			raw:        fenced(`{"foods":[{"name":"Salad"}],"total":{"p":1,"c":2,"f":0,"cal":15}}`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "macro as string",
			raw:        fenced(`{"foods":[],"total":{"p":"1g","c":2,"f":0,"cal":15}}`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
		{
			name:       "array instead of object",
			raw:        fenced(`[1, 2, 3]`),
			wantStatus: ExtractMalformedPayload,
			wantErr:    ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Extraction
			assert.NotPanics(t, func() { got = Extract(tt.raw) })
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.ErrorIs(t, got.Err, tt.wantErr)
			assert.Nil(t, got.Analysis)
		})
	}
}

func TestExtractUsesFirstBlock(t *testing.T) {
	second := `{"foods":[],"total":{"p":9,"c":9,"f":9,"cal":99}}`
	raw := fenced(saladJSON) + "\nAlternatively:\n```json\n" + second + "\n```"

	got := Extract(raw)

	require.Equal(t, ExtractOK, got.Status)
	assert.Equal(t, float64(15), got.Analysis.Total.Calories)
}

func TestExtractFirstBlockMalformed(t *testing.T) {
	raw := fenced(`{not json}`) + "\n```json\n" + saladJSON + "\n```"

	got := Extract(raw)

	assert.Equal(t, ExtractMalformedPayload, got.Status)
	assert.Nil(t, got.Analysis)
}

func TestExtractPassesNumbersThrough(t *testing.T) {
	raw := fenced(`{"foods":[{"name":"Mystery","ingredients":[{"name":"X","m":{"p":-3,"c":1e4,"f":0,"cal":-1}}]}],"total":{"p":100,"c":0,"f":0,"cal":5}}`)

	got := Extract(raw)

	require.Equal(t, ExtractOK, got.Status)
	assert.Equal(t, domain.NutritionInfo{Proteins: -3, Carbs: 10000, Fat: 0, Calories: -1}, got.Analysis.Foods[0].Ingredients[0].Macros)
	// total is not recomputed from the ingredients
	assert.Equal(t, domain.NutritionInfo{Proteins: 100, Carbs: 0, Fat: 0, Calories: 5}, got.Analysis.Total)
}

func TestExtractIgnoresUnknownKeys(t *testing.T) {
	raw := fenced(`{"foods":[{"name":"Salad","portion":"large","ingredients":[{"name":"Lettuce","m":{"p":1,"c":2,"f":0,"cal":15,"fiber":1}}]}],"total":{"p":1,"c":2,"f":0,"cal":15},"confidence":"high"}`)

	got := Extract(raw)

	require.Equal(t, ExtractOK, got.Status)
	assert.Equal(t, "Lettuce", got.Analysis.Foods[0].Ingredients[0].Name)
}

func TestExtractChineseNames(t *testing.T) {
	raw := "```json" + `{"foods":[{"name":"沙拉","ingredients":[{"name":"生菜","m":{"p":1,"c":2,"f":0,"cal":15}}]}],"total":{"p":1,"c":2,"f":0,"cal":15}}` + "```"

	got := Extract(raw)

	require.Equal(t, ExtractOK, got.Status)
	assert.Equal(t, "沙拉", got.Analysis.Foods[0].Name)
	assert.Equal(t, "生菜", got.Analysis.Foods[0].Ingredients[0].Name)
}

func TestExtractIdempotent(t *testing.T) {
	inputs := []string{
		fenced(saladJSON),
		"no json here",
		fenced("{broken"),
	}
	for _, raw := range inputs {
		assert.Equal(t, Extract(raw), Extract(raw))
	}
}

func TestLocateBlock(t *testing.T) {
	block, ok := LocateBlock("before ```json\n  {\"a\": 1}\n``` after")
	require.True(t, ok)
	assert.Equal(t, "\n  {\"a\": 1}\n", block)

	_, ok = LocateBlock("nothing fenced")
	assert.False(t, ok)
}

func TestExtractStatusString(t *testing.T) {
	assert.Equal(t, "ok", ExtractOK.String())
	assert.Equal(t, "no_payload", ExtractNoPayload.String())
	assert.Equal(t, "malformed_payload", ExtractMalformedPayload.String())
	assert.Equal(t, "ExtractStatus(7)", ExtractStatus(7).String())
}
