package llm

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
)

// CacheStats reports hit/miss counters for cost observability.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns the fraction of lookups served from cache.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// AdviceCache is the injected cache abstraction for advice responses.
// Implementations are safe for concurrent use. ResponseCache keeps entries
// in memory; storage-backed implementations survive restarts.
type AdviceCache interface {
	Get(message string, fc *model.UserFinancialContext) (string, bool)
	Set(message string, fc *model.UserFinancialContext, response string, tokenEstimate int)
	Stats() CacheStats
}

// adviceEntry is one cached response.
type adviceEntry struct {
	createdAt     time.Time
	response      string
	tokenEstimate int
}

// ResponseCache is a bounded FIFO AdviceCache. Keys bucket the user's
// savings and income into coarse ordinal ranges so that semantically
// similar questions from users in the same financial bracket collide
// deliberately. When capacity is reached the oldest-inserted key is
// evicted, regardless of recency of use.
type ResponseCache struct {
	entries  map[string]adviceEntry
	order    []string
	ttl      time.Duration
	capacity int
	hits     int64
	misses   int64
	mu       sync.Mutex
}

// DefaultCacheTTL is how long a cached response stays valid.
const DefaultCacheTTL = 24 * time.Hour

// DefaultCacheCapacity bounds the number of cached responses.
const DefaultCacheCapacity = 500

// NewResponseCache creates a bounded FIFO response cache.
func NewResponseCache(ttl time.Duration, capacity int) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ResponseCache{
		entries:  make(map[string]adviceEntry),
		ttl:      ttl,
		capacity: capacity,
	}
}

// bucket maps an amount to a coarse ordinal range.
func bucket(amount float64, thresholds [3]float64) string {
	switch {
	case amount < thresholds[0]:
		return "low"
	case amount < thresholds[1]:
		return "medium"
	case amount < thresholds[2]:
		return "high"
	default:
		return "very-high"
	}
}

// ContextSignature renders the coarse bucketed representation of a user's
// financial state used as part of the cache key.
func ContextSignature(fc *model.UserFinancialContext) string {
	savings := bucket(fc.TotalSavings, [3]float64{5000, 25000, 100000})
	income := bucket(fc.MonthlyIncome, [3]float64{3000, 7000, 15000})
	return fmt.Sprintf("savings:%s|income:%s|goals:%d", savings, income, fc.ActiveGoals)
}

// normalizeMessage collapses a question to its comparable form.
func normalizeMessage(message string) string {
	return strings.Join(strings.Fields(strings.ToLower(message)), " ")
}

// CacheKey hashes the normalized message with the context signature. It is
// shared by every AdviceCache implementation so entries collide the same
// way regardless of backing store.
func CacheKey(message string, fc *model.UserFinancialContext) string {
	sum := sha256.Sum256([]byte(normalizeMessage(message) + "|" + ContextSignature(fc)))
	return fmt.Sprintf("%x", sum)
}

// Get returns the cached response for a semantically similar question from
// the same financial bracket, if one exists and has not expired.
func (c *ResponseCache) Get(message string, fc *model.UserFinancialContext) (string, bool) {
	key := CacheKey(message, fc)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.createdAt) > c.ttl {
		c.misses++
		return "", false
	}

	c.hits++
	return entry.response, true
}

// Set stores a response. At capacity the oldest-inserted entry is evicted.
func (c *ResponseCache) Set(message string, fc *model.UserFinancialContext, response string, tokenEstimate int) {
	key := CacheKey(message, fc)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.capacity && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = adviceEntry{
		response:      response,
		tokenEstimate: tokenEstimate,
		createdAt:     time.Now(),
	}
}

// Stats returns the current hit/miss counters.
func (c *ResponseCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
