package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
)

// DBAdviceCache is an llm.AdviceCache backed by the sqlite database, so
// cached responses and hit/miss counters survive one-shot process runs.
// Eviction is FIFO by first insertion, matching the in-memory cache.
type DBAdviceCache struct {
	db       *sql.DB
	ttl      time.Duration
	capacity int
}

var _ llm.AdviceCache = (*DBAdviceCache)(nil)

// AdviceCache returns a persistent advice cache over this database. Zero
// values fall back to the cache defaults.
func (s *SQLiteStorage) AdviceCache(ttl time.Duration, capacity int) *DBAdviceCache {
	if ttl == 0 {
		ttl = llm.DefaultCacheTTL
	}
	if capacity <= 0 {
		capacity = llm.DefaultCacheCapacity
	}
	return &DBAdviceCache{db: s.db, ttl: ttl, capacity: capacity}
}

// Get returns the cached response for a semantically similar question from
// the same financial bracket. Lookup failures count as misses; the cache
// must never break a chat turn.
func (c *DBAdviceCache) Get(message string, fc *model.UserFinancialContext) (string, bool) {
	key := llm.CacheKey(message, fc)

	var response string
	var createdAt time.Time
	err := c.db.QueryRow(
		`SELECT response, created_at FROM advice_cache WHERE key = ?`, key,
	).Scan(&response, &createdAt)
	if err != nil || time.Since(createdAt) > c.ttl {
		c.bump("misses")
		return "", false
	}

	c.bump("hits")
	return response, true
}

// Set stores a response. Entries beyond capacity are evicted oldest-first
// by original insertion order; write failures are dropped silently.
func (c *DBAdviceCache) Set(message string, fc *model.UserFinancialContext, response string, tokenEstimate int) {
	key := llm.CacheKey(message, fc)

	_, err := c.db.Exec(`
		INSERT INTO advice_cache (key, response, token_estimate, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			response = excluded.response,
			token_estimate = excluded.token_estimate,
			created_at = excluded.created_at`,
		key, response, tokenEstimate, time.Now())
	if err != nil {
		return
	}

	// rowid order is first-insertion order; replaced keys keep their slot.
	_, _ = c.db.Exec(`
		DELETE FROM advice_cache WHERE key NOT IN (
			SELECT key FROM advice_cache ORDER BY rowid DESC LIMIT ?
		)`, c.capacity)
}

// Stats returns the persisted hit/miss counters and the entry count.
func (c *DBAdviceCache) Stats() llm.CacheStats {
	var stats llm.CacheStats
	_ = c.db.QueryRow(`SELECT hits, misses FROM advice_cache_stats WHERE id = 1`).
		Scan(&stats.Hits, &stats.Misses)
	_ = c.db.QueryRow(`SELECT COUNT(*) FROM advice_cache`).Scan(&stats.Entries)
	return stats
}

// bump increments one stats counter; column is always a literal.
func (c *DBAdviceCache) bump(column string) {
	query := fmt.Sprintf(`UPDATE advice_cache_stats SET %s = %s + 1 WHERE id = 1`, column, column)
	_, _ = c.db.Exec(query)
}
