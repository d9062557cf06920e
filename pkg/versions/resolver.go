package versions

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations"
	"github.com/paritytech/psvm/pkg/observability"
)

// DefaultBaseURL is the raw-content host the source documents are read from.
const DefaultBaseURL = "https://raw.githubusercontent.com"

var (
	// DefaultTrustedOwners are crates.io accounts whose crates are published
	// independently of a release's plan.
	DefaultTrustedOwners = []string{"parity-crate-owner"}

	// DefaultLockfileExclusions are umbrella packages of the SDK workspace
	// that are never dependency targets.
	DefaultLockfileExclusions = []string{"polkadot-sdk", "polkadot-sdk-frame", "polkadot-sdk-docs"}
)

// Fetcher reads a document over the network. It returns an error wrapping
// [integrations.ErrNotFound] when the document does not exist.
type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

// OwnerLookup lists the crates owned by a crates.io account.
type OwnerLookup interface {
	OwnedCrates(ctx context.Context, login string) ([]string, error)
}

// Options configures a [Resolver]. Zero values select the defaults.
type Options struct {
	BaseURL            string
	TrustedOwners      []string
	LockfileExclusions []string
	Families           *FamilyRegistry
	// Owners resolves the owner of unpublished plan entries. Without it the
	// trusted-owner allowlist never matches.
	Owners OwnerLookup
	Logger *log.Logger
}

// Request names the release to resolve.
type Request struct {
	Release  string
	Source   SourceKind
	Families []string
}

// Resolver builds version mappings from the documents of a release.
//
// A Resolver holds no mutable state and is safe for concurrent use.
type Resolver struct {
	fetcher Fetcher
	opts    Options
	policy  Policy
}

// NewResolver creates a resolver reading documents through f.
func NewResolver(f Fetcher, opts Options) *Resolver {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TrustedOwners == nil {
		opts.TrustedOwners = DefaultTrustedOwners
	}
	if opts.LockfileExclusions == nil {
		opts.LockfileExclusions = DefaultLockfileExclusions
	}
	if opts.Families == nil {
		opts.Families = DefaultFamilies()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Resolver{
		fetcher: f,
		opts:    opts,
		policy: Policy{
			TrustedOwners: slices.Clone(opts.TrustedOwners),
			Exclusions:    slices.Clone(opts.LockfileExclusions),
		},
	}
}

// Families returns the family registry used by r.
func (r *Resolver) Families() *FamilyRegistry { return r.opts.Families }

// Resolve returns the crate versions of req.Release. Every call fetches the
// documents again. Failures are returned as *[ResolutionError].
func (r *Resolver) Resolve(ctx context.Context, req Request) (m Mapping, err error) {
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, req.Release, req.Source.String())
	start := time.Now()
	defer func() {
		hooks.OnResolveComplete(ctx, req.Release, len(m), time.Since(start), err)
	}()

	if err := psvmerrors.ValidateRelease(req.Release); err != nil {
		return nil, resolutionError(req.Release, err)
	}

	entries, err := r.entries(ctx, req)
	if err != nil {
		return nil, resolutionError(req.Release, err)
	}
	m = BuildMapping(entries, r.policy)

	for _, name := range UniqueFamilies(req.Families) {
		fm, err := r.resolveFamily(ctx, name, req.Release)
		if err != nil {
			return nil, resolutionError(req.Release, err)
		}
		m = m.Merge(fm)
	}

	r.opts.Logger.Debug("resolved release", "release", req.Release, "source", req.Source, "crates", len(m))
	return m, nil
}

func (r *Resolver) entries(ctx context.Context, req Request) ([]Entry, error) {
	switch req.Source {
	case SourcePlan:
		return r.planEntries(ctx, req.Release)
	case SourceLockfile:
		return r.lockfileEntries(ctx, req.Release)
	}

	plan, err := r.fetchPlan(ctx, req.Release)
	if errors.Is(err, integrations.ErrNotFound) {
		r.opts.Logger.Warn("Plan.toml not found, falling back to Cargo.lock; crates that are not published may be included",
			"release", req.Release)
		observability.Resolve().OnFallback(ctx, req.Release)
		return r.lockfileEntries(ctx, req.Release)
	}
	if err != nil {
		return nil, err
	}
	return r.enrichPlan(ctx, req.Release, plan)
}

func (r *Resolver) planEntries(ctx context.Context, release string) ([]Entry, error) {
	plan, err := r.fetchPlan(ctx, release)
	if err != nil {
		return nil, err
	}
	return r.enrichPlan(ctx, release, plan)
}

func (r *Resolver) fetchPlan(ctx context.Context, release string) ([]PlanEntry, error) {
	text, err := r.fetcher.GetText(ctx, PlanURL(r.opts.BaseURL, release))
	if err != nil {
		return nil, err
	}
	return ParsePlan(text)
}

func (r *Resolver) lockfileEntries(ctx context.Context, release string) ([]Entry, error) {
	text, err := r.fetcher.GetText(ctx, LockfileURL(r.opts.BaseURL, release))
	if err != nil {
		return nil, err
	}
	lock, err := ParseLockfile(text)
	if err != nil {
		return nil, err
	}
	return lockfileEntries(lock), nil
}

// enrichPlan stamps the trusted owner on unpublished entries.
func (r *Resolver) enrichPlan(ctx context.Context, release string, plan []PlanEntry) ([]Entry, error) {
	unpublished := slices.ContainsFunc(plan, func(e PlanEntry) bool { return !e.Publish })
	if !unpublished || r.opts.Owners == nil {
		return planEntries(plan), nil
	}

	owners := make(map[string]string)
	for _, login := range r.policy.TrustedOwners {
		names, err := r.opts.Owners.OwnedCrates(ctx, login)
		if err != nil {
			return nil, &ResolutionError{
				Release: release,
				Code:    psvmerrors.ErrCodeNetwork,
				Err:     psvmerrors.Wrap(psvmerrors.ErrCodeNetwork, err, "list crates owned by %s", login),
			}
		}
		for _, name := range names {
			if _, seen := owners[name]; !seen {
				owners[name] = login
			}
		}
	}

	for i := range plan {
		if !plan[i].Publish {
			plan[i].Owner = owners[plan[i].Name]
		}
	}
	return planEntries(plan), nil
}

func (r *Resolver) resolveFamily(ctx context.Context, name, release string) (Mapping, error) {
	f, famRelease, err := r.opts.Families.resolve(name, release)
	if err != nil {
		return nil, err
	}
	text, err := r.fetcher.GetText(ctx, f.ManifestURL(r.opts.BaseURL, famRelease))
	if err != nil {
		return nil, err
	}
	m, err := f.ParseManifest(text)
	if err != nil {
		return nil, err
	}
	r.opts.Logger.Debug("merged family", "family", f.Name, "release", famRelease, "crates", len(m))
	return m, nil
}
