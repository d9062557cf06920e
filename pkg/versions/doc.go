// Package versions resolves the published crate versions of a Polkadot SDK
// release.
//
// # Overview
//
// A [Resolver] turns a release identifier such as "1.6.0" or "stable2407"
// into a [Mapping] from crate name to version:
//
//	r := versions.NewResolver(integrations.NewClient(nil), versions.Options{})
//	m, err := r.Resolve(ctx, versions.Request{Release: "1.6.0"})
//
// # Sources
//
// Two documents of the polkadot-sdk repository can describe a release:
//
//   - Plan.toml, the publish plan. Each [[crate]] row carries the version the
//     crate is published at and a publish flag. Unpublished rows are dropped
//     unless the crate is owned by a trusted crates.io account.
//   - Cargo.lock, the workspace lockfile. It has no publish flag, so every
//     workspace package is included except a small exclusion list.
//
// With [SourceAuto] the resolver reads the plan and falls back to the
// lockfile only when the plan does not exist, logging a warning. The
// lockfile cannot tell a local, unpublished crate from a published one; a
// lockfile mapping may therefore pin crates that are not on crates.io.
//
// # Families
//
// Companion crate families with their own release lines (ORML) are merged
// through a [FamilyRegistry]. Primary crates take precedence on collisions.
//
// # Errors
//
// Every failure of [Resolver.Resolve] is a *[ResolutionError] carrying the
// release and one of NOT_FOUND, NETWORK_ERROR, INVALID_FORMAT or
// UNKNOWN_FAMILY. The resolver never retries and never caches.
package versions
