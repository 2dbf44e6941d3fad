package models

import "time"

// Analysis records the outcome of one completed image analysis.
type Analysis struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Summary   string    `json:"summary"`
	Model     string    `json:"model"` // which upstream model produced the result
	CreatedAt time.Time `json:"createdAt"`
}
