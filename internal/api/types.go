package api

import (
	"github.com/mwl313/yuuka-grow-sub000/internal/store"
)

// APIError represents a structured error response with context.
type APIError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	return e.Message
}

// Error types with proper categorization.
const (
	ErrTypeValidation   = "validation_error"
	ErrTypeNotFound     = "not_found"
	ErrTypeUnauthorized = "unauthorized"
	ErrTypeInternal     = "internal_error"
)

// SubmissionRequest is the payload a client posts after a run ends. The
// fields mirror the core's RunResult.
type SubmissionRequest struct {
	Player         string  `json:"player"`
	EndingCategory string  `json:"ending_category"`
	EndingID       string  `json:"ending_id"`
	SurvivalDays   int     `json:"survival_days"`
	FinalCredits   int     `json:"final_credits"`
	FinalThighCm   float64 `json:"final_thigh_cm"`
	FinalStage     int     `json:"final_stage"`
	FinalStress    int     `json:"final_stress"`
}

// SubmissionResponse echoes the stored submission with its leaderboard rank.
type SubmissionResponse struct {
	Submission     store.Submission `json:"submission"`
	Rank           int              `json:"rank"`
	ServiceVersion string           `json:"service_version"`
}

// LeaderboardResponse is the ranked top slice.
type LeaderboardResponse struct {
	Entries        []store.RankedSubmission `json:"entries"`
	Limit          int                      `json:"limit"`
	Offset         int                      `json:"offset"`
	ServiceVersion string                   `json:"service_version"`
}

// EndingStatsResponse lists per-ending submission counts.
type EndingStatsResponse struct {
	Stats          []store.EndingStat `json:"stats"`
	KnownEndings   int                `json:"known_endings"`
	ServiceVersion string             `json:"service_version"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status         string `json:"status"`
	ServiceVersion string `json:"service_version"`
	Timestamp      string `json:"timestamp"`
}
