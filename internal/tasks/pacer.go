package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPace is the courtesy delay between consecutive batched catalog calls.
const DefaultPace = 100 * time.Millisecond

// Pacer blocks until the next catalog call may be issued. It never retries.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a Pacer admitting one call per interval. The first call
// is admitted immediately. A non-positive interval disables pacing.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return noPace{}
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

type noPace struct{}

func (noPace) Wait(ctx context.Context) error { return ctx.Err() }
