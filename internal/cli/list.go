package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/paritytech/psvm/pkg/versions"
)

// releases lists SDK or ORML releases through the configured cache.
func (c *CLI) releases(cmd *cobra.Command, orml, refresh bool) ([]string, error) {
	store, err := c.newCache()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	lister := c.newLister(store)
	if orml {
		return lister.FamilyReleases(cmd.Context(), versions.ORML().Name, refresh)
	}
	return lister.Releases(cmd.Context(), refresh)
}

func (c *CLI) runList(cmd *cobra.Command, orml, refresh bool) error {
	if refresh {
		c.Logger.Info("Fetching releases from GitHub")
	} else {
		c.Logger.Info("Reading releases from cache")
	}
	list, err := c.releases(cmd, orml, refresh)
	if err != nil {
		return err
	}
	printReleaseList(cmd.OutOrStdout(), list)
	return nil
}

func (c *CLI) runCacheUpdate(cmd *cobra.Command) error {
	c.Logger.Info("Updating cache by freshly fetching releases from GitHub")
	list, err := c.releases(cmd, false, true)
	if err != nil {
		return err
	}
	printSuccess("Cached %d releases", len(list))
	return nil
}

// pickRelease lets the user choose a release interactively. It returns ""
// when the picker is dismissed.
func (c *CLI) pickRelease(cmd *cobra.Command, orml bool) (string, error) {
	list, err := c.releases(cmd, orml, false)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", nil
	}

	model := NewReleaseListModel(list)
	final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return "", fmt.Errorf("release picker: %w", err)
	}
	if m, ok := final.(ReleaseListModel); ok && m.Selected != "" {
		return m.Selected, nil
	}
	return "", nil
}
