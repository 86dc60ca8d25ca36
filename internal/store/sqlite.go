package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens a SQLite database at the given path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency between reads and the submit path
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate brings the schema up to date using the embedded goose migrations.
func (s *SQLiteDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// isBusyError reports whether the error is a transient sqlite lock/busy
// condition worth retrying.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// SaveSubmission inserts a submission, retrying briefly on sqlite busy
// errors. A missing ID or CreatedAt is filled in.
func (s *SQLiteDB) SaveSubmission(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO submissions (
		id, player, ending_category, ending_id, survival_days,
		final_credits, final_thigh_cm, final_stage, final_stress, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(10*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query,
			sub.ID, sub.Player, sub.EndingCategory, sub.EndingID, sub.SurvivalDays,
			sub.FinalCredits, sub.FinalThighCm, sub.FinalStage, sub.FinalStress,
			sub.CreatedAt.Format(time.RFC3339Nano),
		)
		if isBusyError(err) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return fmt.Errorf("failed to insert submission: %w", err)
		}
		return nil
	})
}

func scanSubmission(scanner interface{ Scan(...any) error }) (*Submission, error) {
	var sub Submission
	var createdAt string

	err := scanner.Scan(
		&sub.ID, &sub.Player, &sub.EndingCategory, &sub.EndingID, &sub.SurvivalDays,
		&sub.FinalCredits, &sub.FinalThighCm, &sub.FinalStage, &sub.FinalStress, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		sub.CreatedAt = t
	}
	return &sub, nil
}

const submissionColumns = `id, player, ending_category, ending_id, survival_days,
	final_credits, final_thigh_cm, final_stage, final_stress, created_at`

// GetSubmission fetches one submission by id.
func (s *SQLiteDB) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`

	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("submission not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// DeleteSubmission removes a submission by id.
func (s *SQLiteDB) DeleteSubmission(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission not found: %s", id)
	}
	return nil
}

// leaderboardOrder is the ranking contract: longest survival first, then the
// bigger final growth metric, earlier submission winning remaining ties.
const leaderboardOrder = `ORDER BY survival_days DESC, final_thigh_cm DESC, created_at ASC`

// Leaderboard returns the ranked top slice of submissions.
func (s *SQLiteDB) Leaderboard(ctx context.Context, limit, offset int) ([]RankedSubmission, error) {
	if limit <= 0 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions ` + leaderboardOrder + ` LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []RankedSubmission{}
	rank := offset + 1
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, RankedSubmission{Submission: *sub, Rank: rank})
		rank++
	}
	return entries, rows.Err()
}

// Rank returns the 1-based leaderboard position of a submission.
func (s *SQLiteDB) Rank(ctx context.Context, id string) (int, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return 0, err
	}

	query := `SELECT COUNT(*) FROM submissions
		WHERE survival_days > ?
		   OR (survival_days = ? AND final_thigh_cm > ?)
		   OR (survival_days = ? AND final_thigh_cm = ? AND created_at < ?)`

	var ahead int
	err = s.db.QueryRowContext(ctx, query,
		sub.SurvivalDays,
		sub.SurvivalDays, sub.FinalThighCm,
		sub.SurvivalDays, sub.FinalThighCm, sub.CreatedAt.Format(time.RFC3339Nano),
	).Scan(&ahead)
	if err != nil {
		return 0, fmt.Errorf("failed to compute rank: %w", err)
	}
	return ahead + 1, nil
}

// ListSubmissions returns a paginated admin listing, newest first.
func (s *SQLiteDB) ListSubmissions(ctx context.Context, page, perPage int) (*SubmissionsPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + perPage - 1) / perPage
	return &SubmissionsPage{
		Submissions: subs,
		TotalCount:  total,
		Page:        page,
		PerPage:     perPage,
		TotalPages:  totalPages,
	}, nil
}

// EndingStats returns submission counts per ending id, most collected first.
func (s *SQLiteDB) EndingStats(ctx context.Context) ([]EndingStat, error) {
	query := `SELECT ending_id, ending_category, COUNT(*) AS n
		FROM submissions GROUP BY ending_id, ending_category ORDER BY n DESC, ending_id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ending stats: %w", err)
	}
	defer rows.Close()

	stats := []EndingStat{}
	for rows.Next() {
		var stat EndingStat
		if err := rows.Scan(&stat.EndingID, &stat.EndingCategory, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan ending stat: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// Stats returns the admin overview aggregates.
func (s *SQLiteDB) Stats(ctx context.Context) (*Stats, error) {
	query := `SELECT COUNT(*),
		COUNT(DISTINCT player),
		COUNT(DISTINCT ending_id),
		COALESCE(MAX(survival_days), 0),
		COALESCE(MAX(final_thigh_cm), 0)
		FROM submissions`

	var stats Stats
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalSubmissions,
		&stats.DistinctPlayers,
		&stats.DistinctEndings,
		&stats.BestSurvivalDays,
		&stats.MaxThighCm,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &stats, nil
}
