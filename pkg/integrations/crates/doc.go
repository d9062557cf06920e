// Package crates provides an HTTP client for the crates.io API.
//
// # Overview
//
// psvm uses crates.io to decide whether a crate marked as unpublished in a
// Plan.toml is nevertheless owned by a trusted account (by default
// parity-crate-owner) and therefore safe to pin.
//
// # Usage
//
//	client := crates.NewClient()
//	names, err := client.OwnedCrates(ctx, "parity-crate-owner")
//
// # User-Agent
//
// The client includes a User-Agent header as requested by crates.io policy.
package crates
