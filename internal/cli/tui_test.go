package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m ReleaseListModel, keys ...string) (ReleaseListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(ReleaseListModel)
	}
	return m, cmd
}

func TestReleaseListModel_NewestFirst(t *testing.T) {
	m := NewReleaseListModel([]string{"1.5.0", "1.6.0", "stable2407"})
	if m.Releases[0] != "stable2407" || m.Releases[2] != "1.5.0" {
		t.Errorf("Releases = %v, want newest first", m.Releases)
	}
}

func TestReleaseListModel_Select(t *testing.T) {
	m := NewReleaseListModel([]string{"1.5.0", "1.6.0", "stable2407"})

	m, _ = update(m, "down", "j", "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want clamped to 2", m.Cursor)
	}
	m, _ = update(m, "k")
	m, cmd := update(m, "enter")
	if m.Selected != "1.6.0" {
		t.Errorf("Selected = %q, want 1.6.0", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestReleaseListModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m, cmd := update(NewReleaseListModel([]string{"1.6.0"}), k)
		if m.Selected != "" || cmd == nil {
			t.Errorf("%s: Selected = %q, cmd nil = %v", k, m.Selected, cmd == nil)
		}
	}
}

func TestReleaseListModel_Empty(t *testing.T) {
	m, cmd := update(NewReleaseListModel(nil), "enter")
	if m.Selected != "" || cmd == nil {
		t.Errorf("empty list: Selected = %q", m.Selected)
	}
}

func TestReleaseListModel_Scroll(t *testing.T) {
	var list []string
	for i := range 10 {
		list = append(list, "1."+string(rune('0'+i))+".0")
	}
	m := NewReleaseListModel(list)
	next, _ := m.Update(tea.WindowSizeMsg{Height: 8})
	m = next.(ReleaseListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}

	m, _ = update(m, "down", "down", "down", "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m, _ = update(m, "up", "up", "up", "up", "up")
	if m.Offset != 1 || m.Cursor != 1 {
		t.Errorf("Offset, Cursor = %d, %d, want 1, 1", m.Offset, m.Cursor)
	}
}

func TestReleaseListModel_View(t *testing.T) {
	view := NewReleaseListModel([]string{"1.6.0", "stable2407"}).View()
	for _, want := range []string{"stable2407", "polkadot-stable2407", "release-crates-io-v1.6.0", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
