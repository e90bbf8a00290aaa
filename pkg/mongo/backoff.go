package mongo

import "time"

// DelayFor returns how long to wait after the given failed attempt (1-indexed):
// min(BaseDelay * 2^(attempt-1), MaxDelay). Attempts below 1 are treated as 1.
func DelayFor(attempt int, policy RetryPolicy) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := policy.BaseDelay
	for i := 1; i < attempt; i++ {
		// Doubling past half the cap would exceed it, or overflow near MaxInt64.
		if delay > policy.MaxDelay/2 {
			return policy.MaxDelay
		}
		delay *= 2
	}
	return min(delay, policy.MaxDelay)
}
