// Package tui provides Bubble Tea models for terminal UI interactions.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazuruo/chaosq/internal/format"
	"github.com/chazuruo/chaosq/internal/resource"
	"github.com/chazuruo/chaosq/internal/search"
)

// maxVisible is how many result rows are shown around the cursor.
const maxVisible = 12

// stateMsg delivers a Session state transition to the model.
type stateMsg search.State

// SearchModel is a Bubble Tea model for the aggregated resource search.
// Typing feeds the Session; the Session's states flow back as messages.
type SearchModel struct {
	session *search.Session
	updates chan search.State

	// State is the last state received from the session.
	State search.State

	// items is State.Results flattened in display order.
	items  []resource.Resource
	cursor int

	// SearchInput is the text input for the query.
	SearchInput textinput.Model

	// Spinner is shown while a cycle is loading.
	Spinner spinner.Model

	// ShowHelp controls the key help footer.
	ShowHelp bool

	// Quit indicates whether the user quit without selecting.
	Quit bool

	// Confirmed indicates whether the user selected a resource.
	Confirmed bool

	// Selected is the chosen resource and Link its dashboard path.
	Selected *resource.Resource
	Link     string

	// styles
	headerStyle   lipgloss.Style
	groupStyle    lipgloss.Style
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	metadataStyle lipgloss.Style
	errorStyle    lipgloss.Style
}

// NewSearchModel creates a search model bound to session. A non-empty
// initialQuery is submitted right away.
func NewSearchModel(session *search.Session, initialQuery string, showHelp bool) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search workflows, schedules, experiments, archives..."
	ti.Prompt = "/ "
	ti.SetValue(initialQuery)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	updates := make(chan search.State, 1)
	session.Subscribe(func(st search.State) {
		// Latest state wins; the model only ever renders the newest one.
		for {
			select {
			case updates <- st:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})

	if initialQuery != "" {
		session.OnQueryChange(initialQuery)
	}

	return SearchModel{
		session:     session,
		updates:     updates,
		State:       session.State(),
		SearchInput: ti,
		Spinner:     sp,
		ShowHelp:    showHelp,
		headerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true),
		groupStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		selectedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

// waitForState blocks until the session publishes a new state.
func waitForState(updates <-chan search.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-updates)
	}
}

// Init implements tea.Model.
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick, waitForState(m.updates))
}

// Update implements tea.Model.
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.applyState(search.State(msg))
		return m, waitForState(m.updates)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Quit = true
			return m, tea.Quit

		case "enter":
			if len(m.items) == 0 {
				return m, nil
			}
			selected := m.items[m.cursor]
			m.Selected = &selected
			m.Link = m.session.OnSelect(selected)
			m.Confirmed = true
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil

		case "home":
			m.cursor = 0
			return m, nil

		case "end":
			m.cursor = max(0, len(m.items)-1)
			return m, nil
		}
	}

	oldQuery := m.SearchInput.Value()
	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if newQuery := m.SearchInput.Value(); newQuery != oldQuery {
		m.session.OnQueryChange(strings.TrimSpace(newQuery))
	}

	return m, cmd
}

// applyState replaces the rendered state and keeps the cursor in range.
func (m *SearchModel) applyState(st search.State) {
	m.State = st
	m.items = st.Results.Items()
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

// View implements tea.Model.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(m.headerStyle.Render("Resource Search"))
	b.WriteString("\n\n  ")
	b.WriteString(m.SearchInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString(m.renderResults())

	if m.ShowHelp {
		b.WriteString("\n  ")
		b.WriteString(m.helpText())
		b.WriteString("\n")
	}

	return b.String()
}

// renderStatus renders the loading, no-result or error line.
func (m SearchModel) renderStatus() string {
	st := m.State
	switch {
	case st.Err != nil:
		return "  " + m.errorStyle.Render("Search failed: "+st.Err.Error()) + "\n\n"
	case st.Loading && len(m.items) == 0:
		return "  " + m.Spinner.View() + " " + m.metadataStyle.Render("Acquiring...") + "\n\n"
	case st.Open && st.HasNoResult:
		return "  " + m.metadataStyle.Render("No result") + "\n\n"
	case st.Loading:
		return "  " + m.Spinner.View() + " " + m.metadataStyle.Render(fmt.Sprintf("%d result(s), refreshing...", len(m.items))) + "\n\n"
	case st.Open:
		return "  " + m.metadataStyle.Render(fmt.Sprintf("%d result(s)", len(m.items))) + "\n\n"
	default:
		return "  " + m.metadataStyle.Render("Type to search. Qualifiers: namespace:<ns> kind:<kind>") + "\n\n"
	}
}

// renderResults renders grouped results in a window around the cursor.
func (m SearchModel) renderResults() string {
	if len(m.items) == 0 {
		return ""
	}

	start := max(0, m.cursor-maxVisible/2)
	end := min(len(m.items), start+maxVisible)

	var b strings.Builder
	i := 0
	for _, g := range m.State.Results.Groups {
		headerShown := false
		for _, r := range g.Items {
			if i >= start && i < end {
				if !headerShown {
					b.WriteString("  ")
					b.WriteString(m.groupStyle.Render(g.Label))
					b.WriteString("\n")
					headerShown = true
				}
				b.WriteString(m.renderItem(r, i == m.cursor))
			}
			i++
		}
	}

	return b.String()
}

func (m SearchModel) renderItem(r resource.Resource, isCursor bool) string {
	style := m.normalStyle
	prefix := "    "
	if isCursor {
		style = m.selectedStyle
		prefix = "  > "
	}

	meta := []string{format.Truncate(r.UID, 11)}
	if r.Kind != "" {
		meta = append(meta, r.Kind)
	}
	if r.Namespace != "" {
		meta = append(meta, r.Namespace)
	}
	meta = append(meta, format.Time(r.CreatedAt), format.Ago(r.CreatedAt))

	line := prefix + style.Render(r.Name)
	if r.Status != "" {
		line += " " + format.Status(r.Status)
	}
	return line + "\n      " + m.metadataStyle.Render(strings.Join(meta, " · ")) + "\n"
}

// helpText returns the help text.
func (m SearchModel) helpText() string {
	parts := []string{
		"[Enter] Open",
		"[↑/↓] Move",
		"[Esc] Quit",
	}
	return m.metadataStyle.Render(strings.Join(parts, " • "))
}

// DidQuit returns true if the user quit without selecting.
func (m SearchModel) DidQuit() bool {
	return m.Quit
}

// DidConfirm returns true if the user selected a resource.
func (m SearchModel) DidConfirm() bool {
	return m.Confirmed
}
