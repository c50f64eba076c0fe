package core

import (
	"context"
	"errors"
	"net"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrorCategory describes the class of an error encountered while converting.
type ErrorCategory string

const (
	// ErrorCategoryNone indicates no error.
	ErrorCategoryNone ErrorCategory = ""
	// ErrorCategoryRBAC indicates insufficient permissions (Forbidden/Unauthorized).
	ErrorCategoryRBAC ErrorCategory = "rbac"
	// ErrorCategoryTransient indicates a retryable failure (throttling,
	// timeouts, connectivity, optimistic-concurrency conflicts).
	ErrorCategoryTransient ErrorCategory = "transient"
	// ErrorCategoryPermanent indicates a non-retryable failure unrelated to RBAC.
	ErrorCategoryPermanent ErrorCategory = "permanent"
)

// ClassifyError inspects an error and returns the appropriate category.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}
	// Walk the error chain to find a concrete classification.
	for current := err; current != nil; current = errors.Unwrap(current) {
		switch {
		case apierrors.IsForbidden(current) || apierrors.IsUnauthorized(current):
			return ErrorCategoryRBAC
		case apierrors.IsTooManyRequests(current),
			apierrors.IsTimeout(current),
			apierrors.IsServerTimeout(current),
			apierrors.IsServiceUnavailable(current),
			apierrors.IsConflict(current):
			return ErrorCategoryTransient
		}
		if errors.Is(current, context.DeadlineExceeded) || errors.Is(current, context.Canceled) {
			return ErrorCategoryTransient
		}
		if netErr, ok := current.(net.Error); ok && netErr.Timeout() {
			return ErrorCategoryTransient
		}
	}
	return ErrorCategoryPermanent
}

// IsRetryable reports whether an error deserves another attempt under the
// backoff strategy.
func IsRetryable(err error) bool {
	return ClassifyError(err) == ErrorCategoryTransient
}
