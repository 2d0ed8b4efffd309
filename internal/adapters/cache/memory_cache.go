package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-insights/internal/core"
)

// ErrNotFound is returned when a cache entry is missing or expired
var ErrNotFound = errors.New("cache entry not found")

// MemoryCache is an in-memory implementation of the ReportCache interface
type MemoryCache struct {
	entries     map[string]*core.CachedReport
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMemoryCache creates a new in-memory report cache
func NewMemoryCache(logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]*core.CachedReport),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache
}

// Get retrieves a cached report for a message
func (c *MemoryCache) Get(ctx context.Context, messageID string) (*core.CachedReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[messageID]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, ErrNotFound
	}

	copied := *entry
	return &copied, nil
}

// Set stores a cached report
func (c *MemoryCache) Set(ctx context.Context, entry *core.CachedReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *entry
	c.entries[entry.MessageID] = &copied
	return nil
}

// Delete removes a cached report
func (c *MemoryCache) Delete(ctx context.Context, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, messageID)
	return nil
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MemoryCache) startCleanupTask() {
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

// Stop stops the background cleanup task
func (c *MemoryCache) Stop() {
	close(c.stopCh)
}
