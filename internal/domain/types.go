package domain

// NutritionInfo holds macros in grams and energy in kcal.
type NutritionInfo struct {
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

type Ingredient struct {
	Name   string        `json:"name"`
	Macros NutritionInfo `json:"macros"`
}

type Food struct {
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
}

// AnalysisResult is the normalized nutrition breakdown of one photo. Total is
// taken from the model as reported and is not checked against the ingredients.
type AnalysisResult struct {
	Foods []Food        `json:"foods"`
	Total NutritionInfo `json:"total"`
}
