package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sdpro1234/skin-disease-ai/internal/auth"
	"github.com/sdpro1234/skin-disease-ai/internal/imaging"
	"github.com/sdpro1234/skin-disease-ai/internal/inference"
	"github.com/sdpro1234/skin-disease-ai/internal/services"
	"github.com/sdpro1234/skin-disease-ai/internal/websocket"
)

// PredictHandler runs the image analysis pipeline: decode, infer, record.
type PredictHandler struct {
	analyzer      *inference.Analyzer
	analyses      services.AnalysisServiceProvider
	hub           *websocket.Hub
	maxImageBytes int64
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(analyzer *inference.Analyzer, analyses services.AnalysisServiceProvider, hub *websocket.Hub, maxImageBytes int64) *PredictHandler {
	return &PredictHandler{
		analyzer:      analyzer,
		analyses:      analyses,
		hub:           hub,
		maxImageBytes: maxImageBytes,
	}
}

// predictPayload is the request body for /predict.
type predictPayload struct {
	Image string `json:"image"`
}

// Predict handles POST /predict. Authentication is enforced by middleware;
// every in-pipeline failure, decode, inference or otherwise, is converted to
// a 200 response with an error field. A malformed request must never take the
// service down or leak a fault to the transport layer.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.Subject(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var payload predictPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.run(r.Context(), username, payload.Image)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Prediction pipeline failed")
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"result": result})
}

// run executes the pipeline and converts any panic into an error so the
// caller always gets a response value.
func (h *PredictHandler) run(ctx context.Context, username, encoded string) (result string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("username", username).Msg("Recovered panic in prediction pipeline")
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	img, err := imaging.Decode(encoded, h.maxImageBytes)
	if err != nil {
		return "", err
	}

	result, err = h.analyzer.Analyze(ctx, img)
	if err != nil {
		return "", err
	}

	// History and the live feed are best-effort; a persistence failure must
	// not fail a prediction that already succeeded.
	if _, recErr := h.analyses.Record(username, result, h.analyzer.ModelName()); recErr != nil {
		log.Error().Err(recErr).Str("username", username).Msg("Failed to record analysis")
	}
	h.hub.BroadcastTo(username, websocket.NewAnalysisMessage(username, result, h.analyzer.ModelName()))

	return result, nil
}
