package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"answergen/internal/models"

	_ "modernc.org/sqlite"
)

// OpenJournal opens (and creates if needed) the submission journal at path.
func OpenJournal(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	schema := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			model_id TEXT NOT NULL,
			prompt_preview TEXT NOT NULL DEFAULT '',
			image_mime_type TEXT NOT NULL DEFAULT '',
			image_size_bytes INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at DESC);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

func InsertSubmission(ctx context.Context, db *sql.DB, rec models.SubmissionRecord) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO submissions(id, created_at, model_id, prompt_preview, image_mime_type, image_size_bytes, outcome, duration_ms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAtUnix,
		rec.ModelID,
		rec.PromptPreview,
		rec.ImageMimeType,
		rec.ImageSizeBytes,
		rec.Outcome,
		rec.DurationMillis,
	)
	return err
}

// GetRecentSubmissions returns the total row count and one page of rows, newest first.
func GetRecentSubmissions(ctx context.Context, db *sql.DB, limit, offset int) (int, []models.SubmissionRecord, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&count); err != nil {
		return 0, nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, created_at, model_id, prompt_preview, image_mime_type, image_size_bytes, outcome, duration_ms
		FROM submissions ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	items := make([]models.SubmissionRecord, 0, limit)
	for rows.Next() {
		var it models.SubmissionRecord
		if err := rows.Scan(
			&it.ID,
			&it.CreatedAtUnix,
			&it.ModelID,
			&it.PromptPreview,
			&it.ImageMimeType,
			&it.ImageSizeBytes,
			&it.Outcome,
			&it.DurationMillis,
		); err != nil {
			return 0, nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}

	return count, items, nil
}

// Journal adapts a journal database to the controller's recorder.
type Journal struct {
	DB *sql.DB
}

func (j *Journal) Record(ctx context.Context, rec models.SubmissionRecord) error {
	return InsertSubmission(ctx, j.DB, rec)
}
