package llm

import (
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCacheRoundTrip(t *testing.T) {
	cache := NewResponseCache(5*time.Minute, 10)
	fc := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000, ActiveGoals: 2}

	_, found := cache.Get("How do I start investing?", fc)
	assert.False(t, found)

	cache.Set("How do I start investing?", fc, "Start with an index fund.", 12)

	response, found := cache.Get("How do I start investing?", fc)
	require.True(t, found)
	assert.Equal(t, "Start with an index fund.", response)
}

func TestResponseCacheNormalizesMessage(t *testing.T) {
	cache := NewResponseCache(5*time.Minute, 10)
	fc := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000, ActiveGoals: 2}

	cache.Set("How do I start investing?", fc, "Start with an index fund.", 12)

	// Same words, different case and spacing, same bucket: deliberate hit.
	_, found := cache.Get("  how do I   START investing?", fc)
	assert.True(t, found)
}

func TestResponseCacheBucketShiftMisses(t *testing.T) {
	cache := NewResponseCache(5*time.Minute, 10)
	fc := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000, ActiveGoals: 2}

	cache.Set("How do I start investing?", fc, "Start with an index fund.", 12)

	// Savings moved from the medium to the high bucket.
	richer := &model.UserFinancialContext{TotalSavings: 60000, MonthlyIncome: 5000, ActiveGoals: 2}
	_, found := cache.Get("How do I start investing?", richer)
	assert.False(t, found)

	// Goal count is part of the signature too.
	moreGoals := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000, ActiveGoals: 3}
	_, found = cache.Get("How do I start investing?", moreGoals)
	assert.False(t, found)
}

func TestResponseCacheSameBucketCollides(t *testing.T) {
	cache := NewResponseCache(5*time.Minute, 10)
	fc := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000, ActiveGoals: 2}

	cache.Set("How do I start investing?", fc, "Start with an index fund.", 12)

	// A different user in the same bracket collides deliberately.
	similar := &model.UserFinancialContext{TotalSavings: 18000, MonthlyIncome: 6500, ActiveGoals: 2}
	response, found := cache.Get("How do I start investing?", similar)
	require.True(t, found)
	assert.Equal(t, "Start with an index fund.", response)
}

func TestResponseCacheFIFOEviction(t *testing.T) {
	cache := NewResponseCache(5*time.Minute, 2)
	fc := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000}

	cache.Set("first question", fc, "first", 1)
	cache.Set("second question", fc, "second", 1)

	// Touch the first entry; FIFO ignores recency of use.
	_, found := cache.Get("first question", fc)
	require.True(t, found)

	cache.Set("third question", fc, "third", 1)

	_, found = cache.Get("first question", fc)
	assert.False(t, found, "oldest-inserted entry should be evicted")
	_, found = cache.Get("second question", fc)
	assert.True(t, found)
	_, found = cache.Get("third question", fc)
	assert.True(t, found)
}

func TestResponseCacheExpiry(t *testing.T) {
	cache := NewResponseCache(50*time.Millisecond, 10)
	fc := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000}

	cache.Set("a question", fc, "an answer", 1)

	_, found := cache.Get("a question", fc)
	require.True(t, found)

	time.Sleep(100 * time.Millisecond)

	_, found = cache.Get("a question", fc)
	assert.False(t, found)
}

func TestResponseCacheStats(t *testing.T) {
	cache := NewResponseCache(5*time.Minute, 10)
	fc := &model.UserFinancialContext{TotalSavings: 500, MonthlyIncome: 2000}

	_, _ = cache.Get("miss one", fc)
	cache.Set("hit one", fc, "cached", 1)
	_, _ = cache.Get("hit one", fc)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 0.5, stats.HitRate(), 0.001)
}

func TestContextSignatureBuckets(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		fc       model.UserFinancialContext
	}{
		{
			name:     "low bracket",
			fc:       model.UserFinancialContext{TotalSavings: 100, MonthlyIncome: 1500},
			expected: "savings:low|income:low|goals:0",
		},
		{
			name:     "mixed bracket",
			fc:       model.UserFinancialContext{TotalSavings: 30000, MonthlyIncome: 4000, ActiveGoals: 1},
			expected: "savings:high|income:medium|goals:1",
		},
		{
			name:     "very high bracket",
			fc:       model.UserFinancialContext{TotalSavings: 250000, MonthlyIncome: 20000, ActiveGoals: 4},
			expected: "savings:very-high|income:very-high|goals:4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContextSignature(&tt.fc))
		})
	}
}
