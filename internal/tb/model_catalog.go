package tb

import "fmt"

// AIModel identifies one of the supported generation models.
type AIModel string

const (
	ModelClaudeHaiku AIModel = "claude-haiku-3.5"
	ModelGPT4oMini   AIModel = "gpt-4o-mini"
	ModelGeminiFlash AIModel = "gemini-flash-2.0"
)

// DefaultModel is preselected when creating a project.
const DefaultModel = ModelClaudeHaiku

// CostPerChapter is the estimated spend in USD for generating one chapter.
const CostPerChapter = 0.16

// ModelInfo describes a model for display.
type ModelInfo struct {
	ID          AIModel
	Name        string
	Provider    string
	Description string
	Cost        string
	Speed       string
	Quality     string
}

var modelCatalog = []ModelInfo{
	{
		ID:          ModelClaudeHaiku,
		Name:        "Claude Haiku 3.5",
		Provider:    "Anthropic",
		Description: "Fast, efficient, great quality",
		Cost:        "~$3/course",
		Speed:       "Very Fast",
		Quality:     "Excellent",
	},
	{
		ID:          ModelGPT4oMini,
		Name:        "GPT-4o Mini",
		Provider:    "OpenAI",
		Description: "Latest efficient model",
		Cost:        "~$2/course",
		Speed:       "Fast",
		Quality:     "Excellent",
	},
	{
		ID:          ModelGeminiFlash,
		Name:        "Gemini Flash 2.0",
		Provider:    "Google",
		Description: "Fast multimodal model",
		Cost:        "~$2/course",
		Speed:       "Very Fast",
		Quality:     "Very Good",
	},
}

// Models returns the supported models in display order.
func Models() []ModelInfo {
	return append([]ModelInfo(nil), modelCatalog...)
}

// LookupModel returns catalog info for id.
func LookupModel(id AIModel) (ModelInfo, error) {
	for _, m := range modelCatalog {
		if m.ID == id {
			return m, nil
		}
	}
	return ModelInfo{}, fmt.Errorf("%w: unknown model %q", ErrInvalidInput, id)
}

// EstimateCost returns the estimated generation cost in USD.
func EstimateCost(chapters int) float64 {
	return float64(chapters) * CostPerChapter
}
