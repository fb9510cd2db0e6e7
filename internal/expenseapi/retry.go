package expenseapi

import "time"

const (
	backoffBase = 200 * time.Millisecond
	backoffMax  = 5 * time.Second
)

// exponentialBackoff returns the wait before retry number attempt+1:
// 200ms, 400ms, 800ms, ... capped at 5s.
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 10 {
		return backoffMax
	}
	d := backoffBase << uint(attempt)
	if d > backoffMax {
		return backoffMax
	}
	return d
}
