package websocket

import (
	"encoding/json"
	"time"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewAnalysisMessage builds an "analysis.completed" message for the live feed.
func NewAnalysisMessage(username, summary, model string) []byte {
	msg := Message{
		Action: "analysis.completed",
		Payload: map[string]interface{}{
			"username":    username,
			"summary":     summary,
			"model":       model,
			"completedAt": time.Now().UTC(),
		},
	}
	b, _ := json.Marshal(msg)
	return b
}

// NewStatsMessage builds a "system.stats" message with host metrics.
func NewStatsMessage(cpuPercent, memPercent float64) []byte {
	msg := Message{
		Action: "system.stats",
		Payload: map[string]interface{}{
			"cpuPercent": cpuPercent,
			"memPercent": memPercent,
			"sampledAt":  time.Now().UTC(),
		},
	}
	b, _ := json.Marshal(msg)
	return b
}

// NewErrorMessage builds an error message for a single client.
func NewErrorMessage(detail string) []byte {
	msg := Message{
		Action:  "error",
		Payload: map[string]string{"message": detail},
	}
	b, _ := json.Marshal(msg)
	return b
}
