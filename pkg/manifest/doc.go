// Package manifest reads and edits the dependency tables of Cargo.toml
// files without disturbing anything else in them.
//
// # Overview
//
// [Parse] validates the whole document with BurntSushi/toml and walks it with
// the go-toml/v2 unstable parser, which reports byte ranges of keys and
// strings, to record where every dependency declaration lives in the source. Declarations come in
// four shapes, all supported:
//
//	serde = "1.0"
//	sp-core = { git = "https://github.com/paritytech/polkadot-sdk", branch = "master" }
//
//	[dependencies.frame-support]
//	path = "../frame/support"
//
//	pallet-xcm.workspace = true
//
// [Dependency.Pin] turns a declaration into a registry dependency. [Document.Bytes]
// rewrites only pinned declarations; comments, ordering, whitespace and
// unrelated tables come out byte for byte.
//
// # Tables
//
// A manifest with a [workspace] table is a workspace root: only
// [workspace.dependencies] (and its dev/build variants) is collected.
// Otherwise [dependencies], [dev-dependencies], [build-dependencies] and
// their [target.<cfg>.*] forms are.
package manifest
