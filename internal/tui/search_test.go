package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/chaosq/internal/resource"
	"github.com/chazuruo/chaosq/internal/search"
)

type stubQuerier struct {
	queries chan string
}

func (q *stubQuerier) Search(ctx context.Context, query string) (search.ResultSet, error) {
	q.queries <- query
	return search.ResultSet{Query: query}, nil
}

// idleTimer never fires.
type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

func newTestModel(t *testing.T, initialQuery string) (SearchModel, *stubQuerier) {
	t.Helper()
	q := &stubQuerier{queries: make(chan string, 8)}
	s := search.NewSession(q, search.WithAfterFunc(func(time.Duration, func()) search.Timer {
		return idleTimer{}
	}))
	t.Cleanup(s.Close)
	return NewSearchModel(s, initialQuery, true), q
}

func sampleResults() search.ResultSet {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return search.NewResultSet("pod", search.Collections{
		Workflows: []resource.Resource{
			{UID: "w-0001", Name: "pod-kill-flow", Variant: resource.Workflow, Kind: resource.KindWorkflow, CreatedAt: created},
		},
		Experiments: []resource.Resource{
			{UID: "e-0001", Name: "pod-kill", Variant: resource.Experiment, Kind: "PodChaos", Status: "running", CreatedAt: created},
		},
		Archives: []resource.Resource{
			{UID: "a-0001", Name: "old-pod-flow", Variant: resource.Archive, Kind: resource.KindWorkflow, CreatedAt: created},
		},
	})
}

func update(t *testing.T, m SearchModel, msg tea.Msg) SearchModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SearchModel)
	require.True(t, ok)
	return sm
}

func TestNewSearchModel(t *testing.T) {
	m, _ := newTestModel(t, "")

	assert.False(t, m.Quit)
	assert.False(t, m.Confirmed)
	assert.Nil(t, m.Selected)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, search.State{}, m.State)
	assert.Contains(t, m.View(), "Type to search")
}

func TestNewSearchModel_InitialQuery(t *testing.T) {
	m, _ := newTestModel(t, "pod")

	assert.Equal(t, "pod", m.SearchInput.Value())
	assert.Equal(t, "pod", m.session.State().Query)
}

func TestSearchModel_TypingFeedsSession(t *testing.T) {
	m, _ := newTestModel(t, "")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	assert.Equal(t, "ns", m.SearchInput.Value())
	assert.Equal(t, "ns", m.session.State().Query)
}

func TestSearchModel_StateRendering(t *testing.T) {
	m, _ := newTestModel(t, "")

	m = update(t, m, stateMsg(search.State{Query: "pod", Open: true, Loading: true, Cycle: 1}))
	assert.Contains(t, m.View(), "Acquiring...")

	m = update(t, m, stateMsg(search.State{Query: "zzz", Open: true, HasNoResult: true, Cycle: 1}))
	assert.Contains(t, m.View(), "No result")

	m = update(t, m, stateMsg(search.State{Query: "pod", Open: true, Err: errors.New("connection refused"), Cycle: 2}))
	assert.Contains(t, m.View(), "Search failed: connection refused")

	m = update(t, m, stateMsg(search.State{Query: "pod", Open: true, Results: sampleResults(), Cycle: 3}))
	view := m.View()
	assert.Contains(t, view, "3 result(s)")
	for _, want := range []string{"Workflows", "Experiments", "Archives", "pod-kill-flow", "old-pod-flow", "PodChaos", "2024-03-01", " ago"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "Schedules")
	assert.Less(t, strings.Index(view, "Workflows"), strings.Index(view, "Archives"))
}

func TestSearchModel_CursorNavigation(t *testing.T) {
	m, _ := newTestModel(t, "")
	m = update(t, m, stateMsg(search.State{Query: "pod", Open: true, Results: sampleResults(), Cycle: 1}))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor, "cursor stops at the last item")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.cursor)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 2, m.cursor)

	m = update(t, m, stateMsg(search.State{Query: "pod", Open: true, HasNoResult: true, Results: search.ResultSet{}, Cycle: 2}))
	assert.Equal(t, 0, m.cursor, "cursor is clamped when results shrink")
}

func TestSearchModel_EnterSelects(t *testing.T) {
	m, _ := newTestModel(t, "")
	m = update(t, m, stateMsg(search.State{Query: "pod", Open: true, Results: sampleResults(), Cycle: 1}))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SearchModel)

	require.NotNil(t, cmd)
	assert.True(t, m.DidConfirm())
	assert.False(t, m.DidQuit())
	require.NotNil(t, m.Selected)
	assert.Equal(t, "a-0001", m.Selected.UID)
	assert.Equal(t, "/archives/a-0001?kind=workflow", m.Link)
	assert.False(t, m.session.State().Open)
}

func TestSearchModel_EnterWithoutResults(t *testing.T) {
	m, _ := newTestModel(t, "")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SearchModel)

	assert.Nil(t, cmd)
	assert.False(t, m.DidConfirm())
}

func TestSearchModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m, _ := newTestModel(t, "")
		next, cmd := m.Update(tea.KeyMsg{Type: key})
		m = next.(SearchModel)

		assert.NotNil(t, cmd)
		assert.True(t, m.DidQuit())
	}
}

func TestSearchModel_ReceivesSessionStates(t *testing.T) {
	m, _ := newTestModel(t, "")
	m.session.OnQueryChange("a")
	m.session.OnQueryChange("ab")

	msg := waitForState(m.updates)()
	st, ok := msg.(stateMsg)
	require.True(t, ok)
	assert.Equal(t, "ab", st.Query, "only the newest state is buffered")
}

func TestSearchModel_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, "")
	assert.Contains(t, m.View(), "[Enter] Open")

	m.ShowHelp = false
	assert.NotContains(t, m.View(), "[Enter] Open")
}
