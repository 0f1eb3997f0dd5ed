package sheet

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// RetryPolicy bounds how often a rate-limited call is retried. Sleep is
// injectable so tests don't wait.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Sleep       func(time.Duration)
}

// DefaultRetryPolicy mirrors the workbook's historical behaviour: two
// retries, two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second}
}

// RetryGrid wraps a Grid and retries rate-limited calls under a bounded
// policy. Any other failure surfaces immediately. A retried append after a
// partial success can duplicate rows; that is accepted, not corrected.
type RetryGrid struct {
	inner  Grid
	policy RetryPolicy
}

// NewRetryGrid wraps inner with the given policy.
func NewRetryGrid(inner Grid, policy RetryPolicy) *RetryGrid {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Sleep == nil {
		policy.Sleep = time.Sleep
	}
	return &RetryGrid{inner: inner, policy: policy}
}

// IsRateLimited reports whether err is the store telling us to slow down.
func IsRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "RATE_LIMIT")
}

func (r *RetryGrid) do(ctx context.Context, call func() error) error {
	var err error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if err = call(); err == nil || !IsRateLimited(err) {
			return err
		}
		if attempt < r.policy.MaxAttempts-1 {
			r.policy.Sleep(r.policy.Delay)
		}
	}
	return err
}

func (r *RetryGrid) Values(ctx context.Context, sheet string) ([][]string, error) {
	var rows [][]string
	err := r.do(ctx, func() error {
		var err error
		rows, err = r.inner.Values(ctx, sheet)
		return err
	})
	return rows, err
}

func (r *RetryGrid) Append(ctx context.Context, sheet string, rows [][]string) error {
	return r.do(ctx, func() error { return r.inner.Append(ctx, sheet, rows) })
}

func (r *RetryGrid) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	return r.do(ctx, func() error { return r.inner.UpdateRow(ctx, sheet, index, row) })
}

func (r *RetryGrid) DeleteRow(ctx context.Context, sheet string, index int) error {
	return r.do(ctx, func() error { return r.inner.DeleteRow(ctx, sheet, index) })
}

func (r *RetryGrid) Overwrite(ctx context.Context, sheet string, values [][]string) error {
	return r.do(ctx, func() error { return r.inner.Overwrite(ctx, sheet, values) })
}

func (r *RetryGrid) EnsureSheet(ctx context.Context, sheet string, headers []string) error {
	return r.do(ctx, func() error { return r.inner.EnsureSheet(ctx, sheet, headers) })
}

var _ Grid = (*RetryGrid)(nil)
