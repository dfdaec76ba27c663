// Package httputil provides the HTTP plumbing used to talk to remote
// classifiers.
//
// # Overview
//
//   - [Client]: JSON POST client with default headers, status mapping and retry
//   - [Cache]: file-based response cache with TTL and namespaces
//   - [Retry]: exponential backoff for transient failures
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried. [CheckStatus] marks
// 5xx and 429 responses as retryable; network failures are always retryable.
// A 429 with a Retry-After header waits at least that long before the next
// attempt.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.PostJSON(ctx, url, req, &resp)
//	})
//
// # Caching
//
// [Cache] stores JSON values under ~/.cache/archgraph/http by default. Keys
// are hashed, so any string is a valid key. Use [Cache.Namespace] to keep
// different endpoints apart.
package httputil
