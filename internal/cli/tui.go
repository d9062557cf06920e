package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/paritytech/psvm/pkg/versions"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// ReleaseListModel - Interactive release selection
// =============================================================================

// ReleaseListModel is the bubbletea model for interactive release
// selection. Releases are shown newest first.
type ReleaseListModel struct {
	Releases []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewReleaseListModel creates a release list model from releases ordered
// oldest first.
func NewReleaseListModel(releases []string) ReleaseListModel {
	newest := make([]string, len(releases))
	for i, r := range releases {
		newest[len(releases)-1-i] = r
	}
	return ReleaseListModel{
		Releases: newest,
		Height:   15,
	}
}

func (m ReleaseListModel) Init() tea.Cmd {
	return nil
}

func (m ReleaseListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Releases)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Releases) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Releases[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ReleaseListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Polkadot SDK Release"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Releases))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Releases[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r, releaseKind(r), versions.ReleaseRef(r)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Release", "Kind", "Git ref").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Releases))))

	return b.String()
}

// releaseKind labels a release as a stable tag or a crates.io branch.
func releaseKind(release string) string {
	if strings.HasPrefix(release, "stable") {
		return "stable"
	}
	return "crates-io"
}
