package contract

import "context"

type SequenceRepository interface {
	// Next atomically increments the named counter and returns the new value.
	// The first value handed out for a fresh counter is start.
	Next(ctx context.Context, name string, start int64) (int64, error)
}
