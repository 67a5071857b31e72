// Package solutionlist lists the environment's solutions and the
// components of the one opened.
package solutionlist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/nhath/ezdv/internal/dataverse"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
)

// Source lists solutions and their components.
type Source interface {
	Solutions(ctx context.Context) ([]dataverse.Solution, error)
	SolutionComponents(ctx context.Context, solutionID string) ([]dataverse.SolutionComponent, error)
}

// LoadedMsg carries the solution list. Gen ties it to the load that
// produced it.
type LoadedMsg struct {
	Gen       int
	Solutions []dataverse.Solution
	Err       error
}

// ComponentsLoadedMsg carries the components of one solution.
type ComponentsLoadedMsg struct {
	Gen        int
	SolutionID string
	Components []dataverse.SolutionComponent
	Err        error
}

// Styles for the solution views
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Faint lipgloss.Style
}

// Model holds the list and, once a solution is opened, its components.
type Model struct {
	solutions []dataverse.Solution
	filtered  []dataverse.Solution
	filter    string
	loaded    bool

	open       *dataverse.Solution
	components []dataverse.SolutionComponent

	gen       int
	loading   bool
	err       error
	spinner   spinner.Model
	listTable table.Model
	compTable table.Model
	width     int
	height    int
	styles    Styles
}

// New creates an empty list
func New(styles Styles) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{styles: styles, spinner: s}
}

// SetSize sets the available size
func (m Model) SetSize(w, h int) Model {
	m.width, m.height = w, h
	return m.rebuildTables()
}

// Reset forgets everything loaded and ignores in-flight results.
func (m Model) Reset() Model {
	gen := m.gen + 1
	m = New(m.styles).SetSize(m.width, m.height)
	m.gen = gen
	return m
}

// Load fetches the solution list
func (m Model) Load(src Source) (Model, tea.Cmd) {
	m.gen++
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, LoadCmd(src, m.gen))
}

// LoadCmd fetches every solution
func LoadCmd(src Source, gen int) tea.Cmd {
	return func() tea.Msg {
		sols, err := src.Solutions(context.Background())
		return LoadedMsg{Gen: gen, Solutions: sols, Err: err}
	}
}

// LoadComponentsCmd fetches the components of solutionID
func LoadComponentsCmd(src Source, gen int, solutionID string) tea.Cmd {
	return func() tea.Msg {
		comps, err := src.SolutionComponents(context.Background(), solutionID)
		if err == nil {
			sort.SliceStable(comps, func(i, j int) bool { return comps[i].TypeName() < comps[j].TypeName() })
		}
		return ComponentsLoadedMsg{Gen: gen, SolutionID: solutionID, Components: comps, Err: err}
	}
}

// Loaded reports whether the list has been fetched successfully
func (m Model) Loaded() bool { return m.loaded }

// Loading reports whether a request is pending
func (m Model) Loading() bool { return m.loading }

// Err returns the last load error
func (m Model) Err() error { return m.err }

// Solutions returns the solutions matching the filter
func (m Model) Solutions() []dataverse.Solution { return m.filtered }

// Components returns the components of the opened solution
func (m Model) Components() []dataverse.SolutionComponent { return m.components }

// Opened returns the solution whose components are shown
func (m Model) Opened() (dataverse.Solution, bool) {
	if m.open == nil {
		return dataverse.Solution{}, false
	}
	return *m.open, true
}

// Selected returns the highlighted solution of the list
func (m Model) Selected() (dataverse.Solution, bool) {
	idx, ok := eztable.HighlightedIndex(m.listTable)
	if !ok || idx >= len(m.filtered) {
		return dataverse.Solution{}, false
	}
	return m.filtered[idx], true
}

// OpenSelected shows the highlighted solution and loads its components
func (m Model) OpenSelected(src Source) (Model, tea.Cmd) {
	sol, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.open = &sol
	m.components = nil
	m.loading = true
	m.err = nil
	m = m.rebuildTables()
	return m, tea.Batch(m.spinner.Tick, LoadComponentsCmd(src, m.gen, sol.SolutionID))
}

// Close returns from the components to the list
func (m Model) Close() Model {
	m.open = nil
	m.components = nil
	m.loading = false
	m.err = nil
	return m.rebuildTables()
}

// SetFilter narrows the list by unique or friendly name
func (m Model) SetFilter(term string) Model {
	m.filter = strings.ToLower(strings.TrimSpace(term))
	m.applyFilter()
	return m.rebuildTables()
}

// Filter returns the active filter
func (m Model) Filter() string { return m.filter }

func (m *Model) applyFilter() {
	if m.filter == "" {
		m.filtered = m.solutions
		return
	}
	m.filtered = nil
	for _, s := range m.solutions {
		if strings.Contains(strings.ToLower(s.UniqueName), m.filter) ||
			strings.Contains(strings.ToLower(s.FriendlyName), m.filter) {
			m.filtered = append(m.filtered, s)
		}
	}
}

func (m Model) pageSize() int {
	return max(m.height-6, 5)
}

func (m Model) rebuildTables() Model {
	m.listTable = eztable.FromSolutions(m.filtered).
		WithPageSize(m.pageSize()).
		WithMaxTotalWidth(max(m.width-2, 20))
	m.compTable = eztable.FromComponents(m.components).
		WithPageSize(max(m.pageSize()-6, 3)).
		WithMaxTotalWidth(max(m.width-2, 20))
	return m
}

// Update handles load results, spinner ticks and table navigation
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case LoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.solutions = msg.Solutions
			m.loaded = true
			m.applyFilter()
		}
		return m.rebuildTables(), nil

	case ComponentsLoadedMsg:
		if msg.Gen != m.gen || m.open == nil || msg.SolutionID != m.open.SolutionID {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.components = msg.Components
		}
		return m.rebuildTables(), nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.open != nil {
			m.compTable, cmd = m.compTable.Update(msg)
		} else {
			m.listTable, cmd = m.listTable.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View renders the list or the opened solution
func (m Model) View() string {
	if m.open != nil {
		return m.viewComponents()
	}

	var b strings.Builder
	header := fmt.Sprintf(" Solutions (%d/%d)", len(m.filtered), len(m.solutions))
	if m.filter != "" {
		header += "  filter: " + m.filter
	}
	b.WriteString(m.styles.Title.Render(header))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("  %s Loading solutions...", m.spinner.View()))
	case m.err != nil:
		b.WriteString(m.styles.Faint.Render("  Failed to load solutions: " + m.err.Error()))
	case len(m.filtered) == 0:
		b.WriteString(m.styles.Faint.Render("  (No solutions found)"))
	default:
		b.WriteString(m.listTable.View())
	}
	return b.String()
}

func (m Model) viewComponents() string {
	s := m.open
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(" Solution: " + s.Label()))
	b.WriteString("\n\n")

	managed := "No"
	if s.Managed() {
		managed = "Yes"
	}
	fields := [][2]string{
		{"Unique Name", s.UniqueName},
		{"Version", s.Version},
		{"Managed", managed},
		{"Installed", s.InstalledOn},
		{"Description", s.Description},
	}
	for _, f := range fields {
		value := f[1]
		if value == "" {
			value = "-"
		}
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("  %-14s", f[0])))
		b.WriteString(m.styles.Value.Render(value))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("  %s Loading components...", m.spinner.View()))
	case m.err != nil:
		b.WriteString(m.styles.Faint.Render("  Failed to load components: " + m.err.Error()))
	case len(m.components) == 0:
		b.WriteString(m.styles.Faint.Render("  (No components)"))
	default:
		b.WriteString(m.styles.Faint.Render(fmt.Sprintf(" Components (%d)  %s", len(m.components), summarize(m.components))))
		b.WriteString("\n")
		b.WriteString(m.compTable.View())
	}
	return b.String()
}

// summarize counts components per type, most frequent first.
func summarize(comps []dataverse.SolutionComponent) string {
	counts := map[string]int{}
	var names []string
	for _, c := range comps {
		name := c.TypeName()
		if counts[name] == 0 {
			names = append(names, name)
		}
		counts[name]++
	}
	sort.SliceStable(names, func(i, j int) bool { return counts[names[i]] > counts[names[j]] })
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", n, counts[n]))
	}
	return strings.Join(parts, ", ")
}
