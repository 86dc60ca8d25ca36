package store

import (
	"context"
	"time"
)

// DB is the persistence interface for leaderboard submissions.
type DB interface {
	Close() error
	Migrate() error
	SaveSubmission(ctx context.Context, sub *Submission) error
	GetSubmission(ctx context.Context, id string) (*Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
	Leaderboard(ctx context.Context, limit, offset int) ([]RankedSubmission, error)
	Rank(ctx context.Context, id string) (int, error)
	ListSubmissions(ctx context.Context, page, perPage int) (*SubmissionsPage, error)
	EndingStats(ctx context.Context) ([]EndingStat, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Submission is one stored run result, the leaderboard's unit of ranking.
type Submission struct {
	ID             string    `json:"id" db:"id"`
	Player         string    `json:"player" db:"player"`
	EndingCategory string    `json:"ending_category" db:"ending_category"`
	EndingID       string    `json:"ending_id" db:"ending_id"`
	SurvivalDays   int       `json:"survival_days" db:"survival_days"`
	FinalCredits   int       `json:"final_credits" db:"final_credits"`
	FinalThighCm   float64   `json:"final_thigh_cm" db:"final_thigh_cm"`
	FinalStage     int       `json:"final_stage" db:"final_stage"`
	FinalStress    int       `json:"final_stress" db:"final_stress"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RankedSubmission is a submission with its leaderboard position.
type RankedSubmission struct {
	Submission
	Rank int `json:"rank"`
}

// SubmissionsPage is a paginated admin listing, newest first.
type SubmissionsPage struct {
	Submissions []Submission `json:"submissions"`
	TotalCount  int          `json:"totalCount"`
	Page        int          `json:"page"`
	PerPage     int          `json:"perPage"`
	TotalPages  int          `json:"totalPages"`
}

// EndingStat is the submission count for one ending id.
type EndingStat struct {
	EndingID       string `json:"ending_id"`
	EndingCategory string `json:"ending_category"`
	Count          int    `json:"count"`
}

// Stats is the admin overview.
type Stats struct {
	TotalSubmissions int     `json:"total_submissions"`
	DistinctPlayers  int     `json:"distinct_players"`
	DistinctEndings  int     `json:"distinct_endings"`
	BestSurvivalDays int     `json:"best_survival_days"`
	MaxThighCm       float64 `json:"max_thigh_cm"`
}
