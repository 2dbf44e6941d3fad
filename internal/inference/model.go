package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sdpro1234/skin-disease-ai/internal/apperr"
	"github.com/sdpro1234/skin-disease-ai/internal/imaging"
)

// Model is the boundary to a multimodal inference provider. Implementations
// must be safe for concurrent use; tests substitute a fake.
type Model interface {
	// Generate submits one prompt plus one image and returns the model's text.
	Generate(ctx context.Context, prompt string, img imaging.Image) (string, error)
	// Name returns a short provider label to persist alongside results.
	Name() string
}

// GeminiModel calls the Google generative language REST API.
type GeminiModel struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// NewGeminiModel creates a GeminiModel. timeout bounds each call; a timeout
// surfaces to the caller as an inference failure like any other upstream error.
func NewGeminiModel(endpoint, model, apiKey string, timeout time.Duration) *GeminiModel {
	return &GeminiModel{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name identifies the configured upstream model.
func (g *GeminiModel) Name() string { return g.model }

// Request/response shapes for the generateContent endpoint. Only the fields
// this client reads or writes are declared.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate performs one synchronous generateContent call.
func (g *GeminiModel) Generate(ctx context.Context, prompt string, img imaging.Image) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{
					MIMEType: img.MIMEType(),
					Data:     base64.StdEncoding.EncodeToString(img.Bytes),
				}},
			},
		}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", apperr.ErrInference, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", apperr.ErrInference, err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key travels in a header, never the URL: transport errors quote the
	// full request URL, and that detail ends up in client-visible responses.
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInference, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", apperr.ErrInference, err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", apperr.ErrInference, err)
	}

	// Upstream errors arrive with a non-2xx status and an error object; pass
	// the upstream message through opaquely.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			detail = parsed.Error.Message
		}
		return "", fmt.Errorf("%w: %s", apperr.ErrInference, detail)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response contained no candidates", apperr.ErrInference)
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: response contained no text", apperr.ErrInference)
	}
	return text, nil
}
