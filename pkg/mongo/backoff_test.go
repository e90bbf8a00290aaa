package mongo_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/prodigypm/pkg/mongo"
)

func TestDelayFor(t *testing.T) {
	t.Parallel()

	policy := mongo.RetryPolicy{MaxRetries: 10, BaseDelay: time.Second, MaxDelay: 30 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 1 * time.Second},
		{attempt: 2, want: 2 * time.Second},
		{attempt: 3, want: 4 * time.Second},
		{attempt: 4, want: 8 * time.Second},
		{attempt: 5, want: 16 * time.Second},
		{attempt: 6, want: 30 * time.Second},
		{attempt: 7, want: 30 * time.Second},
		{attempt: 1000, want: 30 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mongo.DelayFor(tt.attempt, policy), "attempt %d", tt.attempt)
	}
}

func TestDelayFor_Formula(t *testing.T) {
	t.Parallel()

	policy := mongo.RetryPolicy{MaxRetries: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 5 * time.Second}
	for attempt := 1; attempt <= 20; attempt++ {
		want := min(policy.BaseDelay*time.Duration(1<<(attempt-1)), policy.MaxDelay)
		assert.Equal(t, want, mongo.DelayFor(attempt, policy), "attempt %d", attempt)
	}
}

func TestDelayFor_EdgeCases(t *testing.T) {
	t.Parallel()

	policy := mongo.RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
	assert.Equal(t, time.Second, mongo.DelayFor(0, policy), "attempt below 1 is treated as 1")
	assert.Equal(t, time.Second, mongo.DelayFor(-3, policy))

	equal := mongo.RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: time.Second}
	assert.Equal(t, time.Second, mongo.DelayFor(4, equal))

	zero := mongo.RetryPolicy{MaxRetries: 3}
	assert.Zero(t, mongo.DelayFor(3, zero))
}

func TestDelayFor_CapNearMaxDuration(t *testing.T) {
	t.Parallel()

	policy := mongo.RetryPolicy{
		MaxRetries: 5,
		BaseDelay:  time.Duration(math.MaxInt64/2 + 1),
		MaxDelay:   time.Duration(math.MaxInt64),
	}
	assert.Equal(t, policy.BaseDelay, mongo.DelayFor(1, policy))
	for attempt := 2; attempt <= 5; attempt++ {
		assert.Equal(t, policy.MaxDelay, mongo.DelayFor(attempt, policy), "attempt %d", attempt)
	}
}
