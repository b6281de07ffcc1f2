package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dcollins/storyshare/internal/domain"
	"gorm.io/gorm"
)

const (
	maxAttempts = 3
	retryDelay  = 100 * time.Millisecond
)

// withRetry runs fn up to maxAttempts times, retrying only transient
// failures (anything that is not a record-not-found, a duplicate key, or
// the caller giving up). After the last attempt the error is collapsed to
// ErrStoreUnavailable so transport details never reach handlers.
func withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !transient(err) {
			return err
		}
		log.Printf("ERROR [postgres.%s] attempt %d/%d: %v", op, attempt, maxAttempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return domain.ErrStoreUnavailable
}

func transient(err error) bool {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
