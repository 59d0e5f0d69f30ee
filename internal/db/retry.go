package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// RetryPolicy bounds how often and how patiently a write is repeated.
type RetryPolicy struct {
	Attempts  int
	Backoff   time.Duration
	Retryable func(error) bool
}

// UpsertRace repeats writes that lost a race on a unique index. The second
// attempt normally finds the winner's document.
var UpsertRace = RetryPolicy{
	Attempts:  4,
	Backoff:   50 * time.Millisecond,
	Retryable: IsDuplicateKey,
}

// Try runs op under the UpsertRace policy.
func Try(ctx context.Context, op func() error) error {
	return UpsertRace.Do(ctx, op)
}

// Do runs op until it succeeds, returns an error the policy does not retry,
// or the attempts are used up. The wait between attempts grows linearly and
// is cut short when ctx is done.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; ; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i >= attempts || p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		t := time.NewTimer(time.Duration(i) * p.Backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}

// IsDuplicateKey reports whether err, or anything it wraps, is a unique index violation.
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}
