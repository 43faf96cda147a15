package vision

import (
	"strings"
)

// compactSchema is the example answer embedded in every prompt. Short keys keep
// the model's reply small; Extract maps them back to full names.
const compactSchema = `{
  "foods": [
    {
      "name": "Food name 1",
      "ingredients": [
        {"name": "Ingredient 1", "m": {"p": 20, "c": 20, "f": 20, "cal": 200}},
        {"name": "Ingredient 2", "m": {"p": 20, "c": 20, "f": 20, "cal": 200}}
      ]
    },
    {
      "name": "Food name 2",
      "ingredients": [
        {"name": "Ingredient 1", "m": {"p": 20, "c": 20, "f": 20, "cal": 200}}
      ]
    }
  ],
  "total": {"p": 60, "c": 60, "f": 60, "cal": 600}
}`

const basePrompt = "Analyze the image. First, list the dishes you can see in the image and the ingredients " +
	"you can recognize in each food. Then, for each ingredient, provide the estimated macros " +
	"(proteins, carbs, fats) and calories. " +
	"In the JSON, \"m\" holds the macros of an ingredient: \"p\" is proteins in grams, \"c\" is carbs in grams, " +
	"\"f\" is fat in grams and \"cal\" is calories in kcal. \"total\" is the sum over all ingredients. " +
	"Reply with the JSON inside a ```json fenced block"

// mandarinClause is added for LanguageChinese. Keys stay ASCII so Extract can
// read the answer regardless of language.
const mandarinClause = ", with all names written in Mandarin Chinese while keeping the JSON keys exactly as shown"

const descriptionClause = " To make your response more accurate here is an additional description " +
	"(Note: regardless of what you see in the description keep the output format as described above): "

// BuildPrompt renders the instruction for req. It is a pure function of its
// input; Image and Detail are copied through without validation.
func BuildPrompt(req AnalysisRequest) Prompt {
	var sb strings.Builder

	sb.WriteString(basePrompt)
	if req.Language == LanguageChinese {
		sb.WriteString(mandarinClause)
	}
	sb.WriteString(", following this format:\n")
	sb.WriteString(compactSchema)
	sb.WriteString("\n")

	if req.Description != "" {
		sb.WriteString(descriptionClause)
		sb.WriteString(`"`)
		sb.WriteString(req.Description)
		sb.WriteString(`".`)
	}

	return Prompt{
		Text:   sb.String(),
		Image:  req.Image,
		Detail: req.Detail,
	}
}
