package crates

import (
	"context"
	"errors"
	"fmt"

	"github.com/paritytech/psvm/pkg/buildinfo"
	"github.com/paritytech/psvm/pkg/integrations"
)

const (
	perPage  = 100
	maxPages = 50
)

// Client provides access to the crates.io registry API.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// Note: crates.io requires a User-Agent header; this client sets one automatically.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client.
func NewClient() *Client {
	headers := map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	}
	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: "https://crates.io/api/v1",
	}
}

// WithBaseURL returns a copy of c that talks to a different API root.
func (c *Client) WithBaseURL(url string) *Client {
	cp := *c
	cp.baseURL = url
	return &cp
}

// OwnedCrates returns the names of every crate owned by the crates.io user
// with the given login.
//
// Returns [integrations.ErrNotFound] if the user doesn't exist and
// [integrations.ErrNetwork] for HTTP failures.
func (c *Client) OwnedCrates(ctx context.Context, login string) ([]string, error) {
	id, err := c.userID(ctx, login)
	if err != nil {
		return nil, err
	}

	var names []string
	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s/crates?user_id=%d&per_page=%d&page=%d", c.baseURL, id, perPage, page)

		var data cratesResponse
		if err := c.Get(ctx, url, &data); err != nil {
			return nil, err
		}
		for _, cr := range data.Crates {
			names = append(names, cr.Name)
		}
		if len(data.Crates) < perPage || len(names) >= data.Meta.Total {
			break
		}
	}
	return names, nil
}

func (c *Client) userID(ctx context.Context, login string) (int64, error) {
	var data userResponse
	url := fmt.Sprintf("%s/users/%s", c.baseURL, integrations.URLEncode(login))
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return 0, fmt.Errorf("%w: crates.io user %s", err, login)
		}
		return 0, err
	}
	return data.User.ID, nil
}

type userResponse struct {
	User struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	} `json:"user"`
}

type cratesResponse struct {
	Crates []struct {
		Name       string `json:"name"`
		MaxVersion string `json:"max_version"`
	} `json:"crates"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}
