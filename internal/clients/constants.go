package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "commentflow-client/1.0 (+https://github.com/spacesedan/commentflow)"
)

// nextBackoff doubles the backoff, capped at MAX_BACKOFF.
func nextBackoff(backoff time.Duration) time.Duration {
	backoff *= 2
	if backoff > MAX_BACKOFF {
		backoff = MAX_BACKOFF
	}
	return backoff
}
