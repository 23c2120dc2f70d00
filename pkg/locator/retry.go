// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/datawire/dlib/dlog"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/datawire/wheelresolver/pkg/python/pep503"
)

//nolint:gochecknoglobals // Would be 'const'.
var DefaultBackoff = wait.Backoff{
	Duration: 500 * time.Millisecond,
	Factor:   2,
	Jitter:   0.1,
	Steps:    4,
}

// Retrying wraps a Locator, retrying failures that look transient.  A Distribution that isn't
// found is not a failure, and is never retried.
type Retrying struct {
	Locator
	// Backoff.Steps is the total number of attempts.
	Backoff wait.Backoff
}

func (l *Retrying) Locate(ctx context.Context, requirement string, prereleases bool) (*Distribution, error) {
	var (
		dist    *Distribution
		lastErr error
		attempt int
	)
	backoff := l.Backoff
	if backoff.Steps < 1 {
		backoff.Steps = 1
	}
	err := wait.ExponentialBackoffWithContext(ctx, backoff, func() (bool, error) {
		attempt++
		dist, lastErr = l.Locator.Locate(ctx, requirement, prereleases)
		switch {
		case lastErr == nil:
			return true, nil
		case IsTemporary(lastErr):
			dlog.Warnf(ctx, "attempt %d to locate %s failed: %v", attempt, requirement, lastErr)
			return false, nil
		default:
			return false, lastErr
		}
	})
	switch {
	case errors.Is(err, wait.ErrWaitTimeout):
		return nil, lastErr
	case err == nil:
		return dist, nil
	case lastErr != nil && err != lastErr: //nolint:errorlint // identity, not equivalence
		// The context ended while waiting to retry.
		return nil, fmt.Errorf("%w (after %d attempts; last error: %v)", err, attempt, lastErr)
	default:
		return nil, err
	}
}

// IsTemporary returns whether an error from a Locator might go away if the request is retried:
// network-level failures, and HTTP 5xx or 429 responses.
func IsTemporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *pep503.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
