// Package integrations provides the HTTP transport used by psvm.
//
// # Overview
//
// The [Client] type is shared by every remote source:
//
//   - raw.githubusercontent.com: Plan.toml, Cargo.lock and family manifests,
//     fetched as text by the version resolver
//   - [github]: release branches and tags of the upstream repositories
//   - [crates]: crates.io owner lookups for the trusted-owner allowlist
//
// # Errors
//
// Every request maps failures onto two sentinels so callers can branch
// without inspecting status codes:
//
//   - [ErrNotFound]: HTTP 404
//   - [ErrNetwork]: connection errors, timeouts, cancellation and unexpected statuses
//
// Rate-limited GitHub responses are reported as *errors.RateLimitedError.
//
// # Retries
//
// [Client.GetText] performs exactly one attempt; a version resolution never
// retries its source documents. [Client.Get], used for paginated JSON APIs,
// retries 5xx responses through [cache.RetryWithBackoff].
//
// [github]: github.com/paritytech/psvm/pkg/integrations/github
// [crates]: github.com/paritytech/psvm/pkg/integrations/crates
// [cache.RetryWithBackoff]: github.com/paritytech/psvm/pkg/cache.RetryWithBackoff
package integrations
