package versions

import (
	"fmt"
	"strings"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
)

// SourceKind selects which document a release is resolved from.
type SourceKind int

const (
	// SourceAuto reads Plan.toml and falls back to Cargo.lock when the plan
	// does not exist.
	SourceAuto SourceKind = iota
	// SourcePlan reads Plan.toml only.
	SourcePlan
	// SourceLockfile reads Cargo.lock only.
	SourceLockfile
)

func (k SourceKind) String() string {
	switch k {
	case SourcePlan:
		return "plan"
	case SourceLockfile:
		return "lockfile"
	default:
		return "auto"
	}
}

// ParseSourceKind parses "auto", "plan" or "lockfile". The empty string is auto.
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SourceAuto, nil
	case "plan", "plan.toml":
		return SourcePlan, nil
	case "lockfile", "lock", "cargo.lock":
		return SourceLockfile, nil
	}
	return SourceAuto, psvmerrors.New(psvmerrors.ErrCodeInvalidInput, "unknown source %q (want plan or lockfile)", s)
}

const (
	sdkRepo      = "paritytech/polkadot-sdk"
	planFile     = "Plan.toml"
	lockfileFile = "Cargo.lock"
)

// ReleaseRef returns the git reference holding the documents of a release:
// polkadot-<release> tags for stable releases, release-crates-io-v<release>
// branches otherwise.
func ReleaseRef(release string) string {
	if strings.HasPrefix(release, "stable") {
		return "polkadot-" + release
	}
	return "release-crates-io-v" + release
}

func documentURL(base, release, file string) string {
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(base, "/"), sdkRepo, ReleaseRef(release), file)
}

// PlanURL returns the raw-content URL of a release's Plan.toml.
func PlanURL(base, release string) string { return documentURL(base, release, planFile) }

// LockfileURL returns the raw-content URL of a release's Cargo.lock.
func LockfileURL(base, release string) string { return documentURL(base, release, lockfileFile) }
