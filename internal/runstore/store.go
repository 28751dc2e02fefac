package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vodscribe/internal/config"
	"vodscribe/internal/progress"
)

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "runs.db"))
}

// OpenPath opens the run database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateRun inserts a new pending run for a video.
func (s *Store) CreateRun(ctx context.Context, videoID, url, title string) (*Run, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, video_id, url, title, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		videoID,
		url,
		nullableString(title),
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// GetRun fetches a run by identifier. Returns nil when no run matches.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// LatestForVideo returns the most recent run for a video ID.
func (s *Store) LatestForVideo(ctx context.Context, videoID string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+runColumns+` FROM runs WHERE video_id = ? ORDER BY created_at DESC LIMIT 1`,
		videoID,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run for video: %w", err)
	}
	return run, nil
}

// MarkRunning transitions a run into the running state and stamps its start time.
func (s *Store) MarkRunning(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, started_at = ?, updated_at = ? WHERE id = ?`,
		StatusRunning,
		now,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark running: %w", err)
	}
	return nil
}

// Finish records a terminal status for a run. errorMessage is stored only
// for failed runs.
func (s *Store) Finish(ctx context.Context, id string, status Status, errorMessage string) error {
	if !status.Terminal() {
		return fmt.Errorf("status %q is not terminal", status)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, error_message = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		status,
		nullableString(errorMessage),
		now,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Update persists mutable run fields.
func (s *Store) Update(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	run.UpdatedAt = time.Now().UTC()

	var durationsJSON any
	if len(run.StageDurations) > 0 {
		data, err := json.Marshal(run.StageDurations)
		if err != nil {
			return fmt.Errorf("marshal stage durations: %w", err)
		}
		durationsJSON = string(data)
	}

	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET title = ?, status = ?, error_message = ?, output_dir = ?,
             quality_score = ?, quality_rating = ?, stage_durations_json = ?,
             updated_at = ?, started_at = ?, completed_at = ?
         WHERE id = ?`,
		nullableString(run.Title),
		run.Status,
		nullableString(run.ErrorMessage),
		nullableString(run.OutputDir),
		run.QualityScore,
		nullableString(run.QualityRating),
		durationsJSON,
		run.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(run.StartedAt),
		nullableTime(run.CompletedAt),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// List returns runs filtered by status set, newest first. With no statuses
// every run is returned.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Run, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + runColumns + ` FROM runs`
	orderClause := ` ORDER BY created_at DESC`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ResetStuckRunning returns runs left in the running state to pending,
// typically after a crash.
func (s *Store) ResetStuckRunning(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck runs: %w", err)
	}
	return res.RowsAffected()
}

// Remove deletes a run and its journaled events.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns a count of runs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates run state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusRunning:
			health.Running += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		case StatusCancelled:
			health.Cancelled += count
		}
	}
	return health, nil
}

// AppendEvent journals a progress event against a run.
func (s *Store) AppendEvent(ctx context.Context, runID string, event progress.Event) error {
	var detailsJSON any
	if len(event.Details) > 0 {
		data, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal event details: %w", err)
		}
		detailsJSON = string(data)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_events (run_id, timestamp, level, stage, message, progress, details_json)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		string(event.Level),
		nullableString(event.Stage),
		event.Message,
		event.Progress,
		detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// EventsForRun returns the journaled events for a run in insertion order.
func (s *Store) EventsForRun(ctx context.Context, runID string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, timestamp, level, stage, message, progress, details_json
         FROM run_events WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var (
			record  EventRecord
			raw     string
			stage   sql.NullString
			details sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.RunID, &raw, &record.Level, &stage, &record.Message, &record.Progress, &details); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.Stage = stage.String
		record.Details = details.String
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			record.Timestamp = ts
		}
		events = append(events, record)
	}
	return events, rows.Err()
}

const runColumns = "id, video_id, url, title, status, error_message, output_dir, quality_score, quality_rating, stage_durations_json, created_at, updated_at, started_at, completed_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id            string
		videoID       string
		url           string
		title         sql.NullString
		statusStr     string
		errorMessage  sql.NullString
		outputDir     sql.NullString
		qualityScore  sql.NullFloat64
		qualityRating sql.NullString
		durationsRaw  sql.NullString
		createdRaw    string
		updatedRaw    string
		startedRaw    sql.NullString
		completedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&videoID,
		&url,
		&title,
		&statusStr,
		&errorMessage,
		&outputDir,
		&qualityScore,
		&qualityRating,
		&durationsRaw,
		&createdRaw,
		&updatedRaw,
		&startedRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:            id,
		VideoID:       videoID,
		URL:           url,
		Title:         title.String,
		Status:        Status(statusStr),
		ErrorMessage:  errorMessage.String,
		OutputDir:     outputDir.String,
		QualityScore:  qualityScore.Float64,
		QualityRating: qualityRating.String,
	}
	if durationsRaw.Valid && durationsRaw.String != "" {
		durations := make(map[string]float64)
		if err := json.Unmarshal([]byte(durationsRaw.String), &durations); err == nil {
			run.StageDurations = durations
		}
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		run.UpdatedAt = updated
	}
	if startedRaw.Valid {
		if started, err := time.Parse(time.RFC3339Nano, startedRaw.String); err == nil {
			run.StartedAt = &started
		}
	}
	if completedRaw.Valid {
		if completed, err := time.Parse(time.RFC3339Nano, completedRaw.String); err == nil {
			run.CompletedAt = &completed
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
