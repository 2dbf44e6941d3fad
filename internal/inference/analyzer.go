package inference

import (
	"context"

	"github.com/sdpro1234/skin-disease-ai/internal/imaging"
)

// skinPrompt is the fixed instruction submitted with every image.
const skinPrompt = `
Analyze this skin image and provide:

1. Possible Skin Disease
2. Severity Level (Mild / Moderate / Severe)
3. Health Recommendation
4. Preventive Measures

Answer clearly.
`

// Analyzer pairs a model with the fixed dermatology prompt.
type Analyzer struct {
	model Model
}

// NewAnalyzer creates an Analyzer over the given model.
func NewAnalyzer(model Model) *Analyzer {
	return &Analyzer{model: model}
}

// Analyze submits the image with the fixed prompt and returns the model text.
func (a *Analyzer) Analyze(ctx context.Context, img imaging.Image) (string, error) {
	return a.model.Generate(ctx, skinPrompt, img)
}

// ModelName reports the underlying model's label.
func (a *Analyzer) ModelName() string {
	return a.model.Name()
}
