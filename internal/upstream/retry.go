package upstream

import (
	"math/rand"
	"time"
)

// Retry delays for repeated upstream failures.
var retryDelays = []time.Duration{
	5 * time.Second,
	15 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
}

// JitterFactor is the ±fraction of jitter applied to retry delays.
const JitterFactor = 0.2

// RetryDelay returns the wait after the given number of consecutive
// failures (1-based), with jitter. Delays stop growing after the last step.
func RetryDelay(failures int) time.Duration {
	i := failures - 1
	if i < 0 {
		i = 0
	}
	if i >= len(retryDelays) {
		i = len(retryDelays) - 1
	}

	base := retryDelays[i]
	jitter := (rand.Float64()*2 - 1) * float64(base) * JitterFactor
	return time.Duration(float64(base) + jitter)
}
