// Package pkg provides the libraries behind psvm, the Polkadot SDK version
// manager.
//
// # Overview
//
// psvm pins the Polkadot SDK crates a Rust project depends on to the
// versions published for one SDK release. The pkg directory is organized
// into a few areas:
//
//  1. [versions] - release listing and crate-version resolution
//  2. [manifest] - lossless Cargo.toml parsing and editing
//  3. [rewrite] - the pinning rules applied to a manifest
//  4. [integrations] - GitHub, crates.io and raw-content clients
//  5. [cache] - file, Redis and no-op caches for release listings
//
// # Architecture
//
// The typical data flow for one invocation:
//
//	release (e.g. 1.6.0 or stable2407)
//	         ↓
//	    [versions] Resolver (Plan.toml, Cargo.lock fallback, families)
//	         ↓
//	    crate → version mapping
//	         ↓
//	    [rewrite] Apply over [manifest] dependencies
//	         ↓
//	    Cargo.toml saved, or a mismatch report in check mode
//
// # Quick Start
//
//	client := integrations.NewClient(nil)
//	resolver := versions.NewResolver(client, versions.Options{})
//	m, err := resolver.Resolve(ctx, versions.Request{Release: "1.6.0"})
//	if err != nil {
//	    return err
//	}
//
//	doc, err := manifest.Load("Cargo.toml")
//	if err != nil {
//	    return err
//	}
//	out := rewrite.Apply(m, doc.Dependencies(), rewrite.Options{})
//	if out.Changed {
//	    err = manifest.Save("Cargo.toml", doc)
//	}
//
// # Supporting Packages
//
//   - [errors] - structured error codes shared by the CLI and HTTP API
//   - [observability] - optional hooks around resolution, caching and HTTP
//   - [buildinfo] - version information stamped at build time
//
// [versions]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/versions
// [manifest]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/manifest
// [rewrite]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/rewrite
// [integrations]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/cache
// [errors]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/errors
// [observability]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/paritytech/psvm/pkg/buildinfo
package pkg
