package versions

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/paritytech/psvm/pkg/cache"
	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations/github"
	"github.com/paritytech/psvm/pkg/observability"
)

const (
	sdkOwner      = "paritytech"
	sdkName       = "polkadot-sdk"
	branchPrefix  = "release-crates-io-v"
	stableTagPref = "polkadot-stable"
)

// RefLister lists git references of a GitHub repository.
type RefLister interface {
	ListBranches(ctx context.Context, owner, repo string) ([]string, error)
	ListTags(ctx context.Context, owner, repo string) ([]string, error)
}

// Lister discovers the releases that can be resolved.
type Lister struct {
	refs     RefLister
	cache    cache.Cache
	ttl      time.Duration
	families *FamilyRegistry
	logger   *log.Logger
}

// NewLister creates a release lister. A nil cache disables caching and a
// nil family registry selects [DefaultFamilies].
func NewLister(refs RefLister, c cache.Cache, ttl time.Duration, families *FamilyRegistry, logger *log.Logger) *Lister {
	if c == nil {
		c = cache.NewNullCache()
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if families == nil {
		families = DefaultFamilies()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Lister{refs: refs, cache: c, ttl: ttl, families: families, logger: logger}
}

// Releases returns the SDK releases: versions of release-crates-io-v*
// branches followed by stable tags, oldest first. When refresh is false a
// cached list is returned if present.
func (l *Lister) Releases(ctx context.Context, refresh bool) ([]string, error) {
	return l.cached(ctx, sdkRepo, refresh, func() ([]string, error) {
		branches, err := l.refs.ListBranches(ctx, sdkOwner, sdkName)
		if err != nil {
			return nil, err
		}
		tags, err := l.refs.ListTags(ctx, sdkOwner, sdkName)
		if err != nil {
			return nil, err
		}

		var out []string
		for _, b := range branches {
			if v, ok := strings.CutPrefix(b, branchPrefix); ok && v != "" {
				out = append(out, v)
			}
		}
		for _, t := range tags {
			if strings.HasPrefix(t, stableTagPref) {
				out = append(out, strings.TrimPrefix(t, "polkadot-"))
			}
		}
		return SortReleases(out), nil
	})
}

// FamilyReleases returns the release versions of a family, oldest first.
func (l *Lister) FamilyReleases(ctx context.Context, family string, refresh bool) ([]string, error) {
	f, ok := l.families.Lookup(family)
	if !ok {
		return nil, psvmerrors.New(psvmerrors.ErrCodeUnknownFamily, "unknown family %q", family)
	}
	owner, repo, err := github.ParseRepoRef(f.Repo)
	if err != nil {
		return nil, err
	}

	return l.cached(ctx, f.Repo, refresh, func() ([]string, error) {
		branches, err := l.refs.ListBranches(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, b := range branches {
			if v, ok := strings.CutPrefix(b, f.BranchPrefix); ok {
				if _, err := semver.StrictNewVersion(v); err == nil {
					out = append(out, v)
				}
			}
		}
		return SortReleases(out), nil
	})
}

func (l *Lister) cached(ctx context.Context, repo string, refresh bool, fetch func() ([]string, error)) ([]string, error) {
	key := cache.ReleasesKey(repo)
	if !refresh {
		var list []string
		ok, err := cache.GetJSON(ctx, l.cache, key, &list)
		if err != nil {
			l.logger.Debug("cache read failed", "key", key, "error", err)
		} else if ok {
			l.logger.Debug("cache hit", "key", key, "releases", len(list))
			observability.Cache().OnCacheHit(ctx, key)
			return list, nil
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}

	list, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, l.cache, key, list, l.ttl); err != nil {
		l.logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(list))
	}
	return list, nil
}

// SortReleases orders releases in place and returns them: semantic
// versions ascending, then other identifiers, then stable releases, each
// group in lexical order. Duplicates are removed.
func SortReleases(releases []string) []string {
	rank := func(r string) int {
		switch {
		case strings.HasPrefix(r, "stable"):
			return 2
		case isSemver(r):
			return 0
		default:
			return 1
		}
	}
	slices.SortFunc(releases, func(a, b string) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra - rb
		}
		if ra == 0 {
			if c := semver.MustParse(a).Compare(semver.MustParse(b)); c != 0 {
				return c
			}
		}
		return strings.Compare(a, b)
	})
	return slices.Compact(releases)
}

func isSemver(s string) bool {
	_, err := semver.StrictNewVersion(s)
	return err == nil
}
