package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/paritytech/psvm/pkg/buildinfo"
	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/integrations"
)

const (
	perPage  = 100
	maxPages = 20
)

// Runner executes an external command and returns its standard output.
// It is used to fall back to the GitHub CLI when the REST API rate-limits
// unauthenticated requests.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands through os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Client lists branches and tags of GitHub repositories.
type Client struct {
	*integrations.Client
	baseURL string
	runner  Runner
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(token string) *Client {
	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": buildinfo.UserAgent(),
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: "https://api.github.com",
		runner:  ExecRunner,
	}
}

// WithBaseURL returns a copy of c that talks to a different API root.
func (c *Client) WithBaseURL(url string) *Client {
	cp := *c
	cp.baseURL = url
	return &cp
}

// WithRunner returns a copy of c using r for the gh fallback.
// A nil runner disables the fallback.
func (c *Client) WithRunner(r Runner) *Client {
	cp := *c
	cp.runner = r
	return &cp
}

// ListBranches returns the names of all branches of owner/repo.
func (c *Client) ListBranches(ctx context.Context, owner, repo string) ([]string, error) {
	return c.listRefs(ctx, owner, repo, "branches")
}

// ListTags returns the names of all tags of owner/repo.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	return c.listRefs(ctx, owner, repo, "tags")
}

func (c *Client) listRefs(ctx context.Context, owner, repo, kind string) ([]string, error) {
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	if err := ValidateRepo(repo); err != nil {
		return nil, err
	}

	names, err := c.fetchRefs(ctx, owner, repo, kind)
	var rl *psvmerrors.RateLimitedError
	if errors.As(err, &rl) && c.runner != nil {
		if names, ghErr := c.fetchRefsCLI(ctx, owner, repo, kind); ghErr == nil {
			return names, nil
		}
	}
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
	}
	return names, err
}

func (c *Client) fetchRefs(ctx context.Context, owner, repo, kind string) ([]string, error) {
	var names []string
	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/%s?per_page=%d&page=%d", c.baseURL, owner, repo, kind, perPage, page)

		var refs []Ref
		if err := c.Get(ctx, url, &refs); err != nil {
			return nil, err
		}
		for _, r := range refs {
			names = append(names, r.Name)
		}
		if len(refs) < perPage {
			break
		}
	}
	return names, nil
}

func (c *Client) fetchRefsCLI(ctx context.Context, owner, repo, kind string) ([]string, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/%s?per_page=%d", owner, repo, kind, perPage)
	out, err := c.runner(ctx, "gh", "api", "--paginate", endpoint, "--jq", ".[].name")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range bytes.Split(out, []byte("\n")) {
		if line = bytes.TrimSpace(line); len(line) > 0 {
			names = append(names, string(line))
		}
	}
	return names, nil
}
