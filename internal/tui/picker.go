package tui

import (
	"strings"
	"time"

	"narrator-cli/internal/gateway"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

type pickerKind int

const (
	pickNone pickerKind = iota
	pickConversation
	pickWorld
)

type listingItem struct {
	listing gateway.Listing
	now     time.Time
}

func (i listingItem) FilterValue() string { return i.listing.Title() }
func (i listingItem) Title() string       { return i.listing.Title() }
func (i listingItem) Description() string {
	return strings.Join(i.listing.Describe(i.now), " • ")
}

type worldItem struct {
	world gateway.World
}

func (i worldItem) FilterValue() string { return i.world.Location + " " + i.world.Description }
func (i worldItem) Title() string {
	if i.world.Location != "" {
		return i.world.Location
	}
	return "World " + string(i.world.ID)
}
func (i worldItem) Description() string { return i.world.Description }

func newPicker() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 40, 10)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}

func (m *Model) openConversationPicker(items []gateway.Listing) {
	now := m.now()
	out := make([]list.Item, 0, len(items))
	selected := 0
	active := m.ctl.Session().ActiveConversationID()
	for i, it := range items {
		out = append(out, listingItem{listing: it, now: now})
		if it.ID == active {
			selected = i
		}
	}
	m.picker.Title = "Continue a game  (enter open • ctrl+d delete • esc close)"
	m.picker.ResetFilter()
	m.picker.SetItems(out)
	m.picker.Select(selected)
	m.picking = pickConversation
}

func (m *Model) openWorldPicker(worlds []gateway.World) {
	out := make([]list.Item, 0, len(worlds))
	for _, w := range worlds {
		out = append(out, worldItem{world: w})
	}
	m.picker.Title = "Start a new game  (enter create • esc close)"
	m.picker.ResetFilter()
	m.picker.SetItems(out)
	m.picker.Select(0)
	m.picking = pickWorld
}

func (m *Model) closePicker() {
	m.picking = pickNone
	m.picker.ResetFilter()
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if m.picker.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.closePicker()
		return nil
	case "enter":
		return m.pickSelected()
	case "ctrl+d":
		if it, ok := m.picker.SelectedItem().(listingItem); ok && m.picking == pickConversation {
			m.closePicker()
			m.requestDelete(it.listing.ID, it.listing.Title())
		}
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return cmd
}

func (m *Model) pickSelected() tea.Cmd {
	switch it := m.picker.SelectedItem().(type) {
	case listingItem:
		m.closePicker()
		return m.loadCmd(it.listing.ID)
	case worldItem:
		m.closePicker()
		return m.createCmd(string(it.world.ID))
	}
	return nil
}

// bestListing 按标题模糊匹配 query，返回得分最高的会话；ID 完全相同时直接命中。
func bestListing(items []gateway.Listing, query string) (gateway.Listing, bool) {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return gateway.Listing{}, false
	}
	for _, it := range items {
		if it.ID == query {
			return it, true
		}
	}
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = strings.ToLower(it.Title())
	}
	matches := fuzzy.Find(strings.ToLower(query), titles)
	if len(matches) == 0 {
		return gateway.Listing{}, false
	}
	return items[matches[0].Index], true
}
