package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/winregi/core"
)

// RetryWithBackoff executes an operation with exponential backoff retry logic.
// It retries up to maxAttempts times, with delays of baseDelay * 2^(attempt-1).
// Respects context cancellation between attempts.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("catalog load succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("catalog load failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)

		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Retrying wraps a catalog whose backing store may be briefly unreachable,
// such as a database file held by another process.
type Retrying struct {
	inner       Catalog
	maxAttempts int
	baseDelay   time.Duration
}

var _ Catalog = (*Retrying)(nil)

// NewRetrying wraps inner with retry logic.
func NewRetrying(inner Catalog, maxAttempts int, baseDelay time.Duration) (*Retrying, error) {
	if maxAttempts <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	return &Retrying{inner: inner, maxAttempts: maxAttempts, baseDelay: baseDelay}, nil
}

// LoadEntries loads entries from the wrapped catalog, retrying on failure.
// The final error wraps ErrCatalogUnavailable.
func (r *Retrying) LoadEntries(ctx context.Context) ([]*core.SettingEntry, error) {
	var entries []*core.SettingEntry
	err := RetryWithBackoff(ctx, func() error {
		var err error
		entries, err = r.inner.LoadEntries(ctx)
		return err
	}, r.maxAttempts, r.baseDelay)
	if err != nil {
		return nil, unavailable(err)
	}
	return entries, nil
}

// LoadCategories loads categories if the wrapped catalog exposes them.
func (r *Retrying) LoadCategories(ctx context.Context) ([]*core.Category, error) {
	lister, ok := r.inner.(CategoryLister)
	if !ok {
		return nil, nil
	}
	var categories []*core.Category
	err := RetryWithBackoff(ctx, func() error {
		var err error
		categories, err = lister.LoadCategories(ctx)
		return err
	}, r.maxAttempts, r.baseDelay)
	if err != nil {
		return nil, unavailable(err)
	}
	return categories, nil
}

// unavailable wraps err in ErrCatalogUnavailable unless it already is one.
func unavailable(err error) error {
	if errors.Is(err, ErrCatalogUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
}
