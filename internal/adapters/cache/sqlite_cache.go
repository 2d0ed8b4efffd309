package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/email-insights/internal/core"
)

// SQLiteCache is a SQLite implementation of the ReportCache interface. The
// analysis report is stored as a JSON blob keyed by message ID.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite report cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS report_cache (
			message_id TEXT PRIMARY KEY,
			report_json TEXT,
			analyzed_at TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_report_expires_at ON report_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached report for a message
func (c *SQLiteCache) Get(ctx context.Context, messageID string) (*core.CachedReport, error) {
	var reportJSON string
	var analyzedAt, expiresAt time.Time

	err := c.db.QueryRowContext(ctx, `
		SELECT report_json, analyzed_at, expires_at
		FROM report_cache
		WHERE message_id = ? AND expires_at > datetime('now')
	`, messageID).Scan(&reportJSON, &analyzedAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query report cache: %w", err)
	}

	var report core.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}

	return &core.CachedReport{
		MessageID:  messageID,
		Report:     report,
		AnalyzedAt: analyzedAt,
		ExpiresAt:  expiresAt,
	}, nil
}

// Set stores a cached report
func (c *SQLiteCache) Set(ctx context.Context, entry *core.CachedReport) error {
	reportJSON, err := json.Marshal(entry.Report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO report_cache (message_id, report_json, analyzed_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, entry.MessageID, string(reportJSON), entry.AnalyzedAt, entry.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to store cached report: %w", err)
	}
	return nil
}

// Delete removes a cached report
func (c *SQLiteCache) Delete(ctx context.Context, messageID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM report_cache WHERE message_id = ?`, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete cached report: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM report_cache WHERE expires_at <= datetime('now')`)
	if err != nil {
		return fmt.Errorf("failed to clean up report cache: %w", err)
	}

	if expired, err := result.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", expired))
	}
	return nil
}

func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
