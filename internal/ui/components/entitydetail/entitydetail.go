// Package entitydetail shows one entity's attributes, relationships and
// metadata in tabs.
package entitydetail

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/nhath/ezdv/internal/dataverse"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
)

// Tab is one of the detail tabs.
type Tab int

const (
	TabAttributes Tab = iota
	TabRelationships
	TabMetadata
	TabQuery
)

var tabNames = [...]string{"Attributes", "Relationships", "Metadata", "Query"}

func (t Tab) String() string {
	return tabNames[t]
}

// MetadataSource lists an entity's attributes and relationships.
type MetadataSource interface {
	Attributes(ctx context.Context, logicalName string) ([]dataverse.AttributeMetadata, error)
	Relationships(ctx context.Context, logicalName string, kind dataverse.RelationshipKind) ([]dataverse.RelationshipMetadata, error)
}

// EntityLoadedMsg is sent when an entity's metadata has been fetched
type EntityLoadedMsg struct {
	LogicalName   string
	Attributes    []dataverse.AttributeMetadata
	Relationships []dataverse.RelationshipMetadata
	Err           error
}

// Styles for the detail view
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Faint       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
}

// Model represents the entity detail state
type Model struct {
	entity        dataverse.EntityMetadata
	attributes    []dataverse.AttributeMetadata
	relationships []dataverse.RelationshipMetadata
	filter        string

	activeTab Tab
	width     int
	height    int
	styles    Styles

	spinner   spinner.Model
	attrTable table.Model
	relTable  table.Model
	loading   bool
	err       error
}

// New creates an empty detail view
func New(styles Styles) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{styles: styles, spinner: s}
}

// SetSize sets the available size
func (m Model) SetSize(w, h int) Model {
	m.width = w
	m.height = h
	return m.rebuildTables()
}

// Open switches the view to entity and starts loading its metadata.
func (m Model) Open(src MetadataSource, entity dataverse.EntityMetadata) (Model, tea.Cmd) {
	m.entity = entity
	m.attributes = nil
	m.relationships = nil
	m.filter = ""
	m.activeTab = TabAttributes
	m.err = nil
	m.loading = true
	m = m.rebuildTables()
	return m, tea.Batch(m.spinner.Tick, LoadEntityCmd(src, entity.LogicalName))
}

// LoadEntityCmd fetches attributes and every relationship kind concurrently
func LoadEntityCmd(src MetadataSource, logicalName string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := EntityLoadedMsg{LogicalName: logicalName}

		kinds := []dataverse.RelationshipKind{dataverse.OneToMany, dataverse.ManyToOne, dataverse.ManyToMany}
		rels := make([][]dataverse.RelationshipMetadata, len(kinds))
		errs := make([]error, len(kinds)+1)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg.Attributes, errs[len(kinds)] = src.Attributes(ctx, logicalName)
		}()
		for i, kind := range kinds {
			wg.Add(1)
			go func(i int, kind dataverse.RelationshipKind) {
				defer wg.Done()
				rels[i], errs[i] = src.Relationships(ctx, logicalName, kind)
			}(i, kind)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				msg.Err = err
				return msg
			}
		}
		sort.Slice(msg.Attributes, func(i, j int) bool {
			return msg.Attributes[i].LogicalName < msg.Attributes[j].LogicalName
		})
		for _, r := range rels {
			msg.Relationships = append(msg.Relationships, r...)
		}
		return msg
	}
}

// Entity returns the entity on display
func (m Model) Entity() dataverse.EntityMetadata {
	return m.entity
}

// Attributes returns every loaded attribute, unfiltered
func (m Model) Attributes() []dataverse.AttributeMetadata {
	return m.attributes
}

// Loading reports whether metadata is still being fetched
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the last load error
func (m Model) Err() error {
	return m.err
}

// ActiveTab returns the selected tab
func (m Model) ActiveTab() Tab {
	return m.activeTab
}

// SetTab selects a tab
func (m Model) SetTab(t Tab) Model {
	m.activeTab = t
	return m
}

// NextTab moves right, wrapping
func (m Model) NextTab() Model {
	m.activeTab = (m.activeTab + 1) % Tab(len(tabNames))
	return m
}

// PrevTab moves left, wrapping
func (m Model) PrevTab() Model {
	m.activeTab = (m.activeTab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
	return m
}

// SetFilter narrows the attribute list by logical or display name
func (m Model) SetFilter(term string) Model {
	m.filter = strings.ToLower(strings.TrimSpace(term))
	return m.rebuildTables()
}

// Filter returns the active attribute filter
func (m Model) Filter() string {
	return m.filter
}

func (m Model) filteredAttributes() []dataverse.AttributeMetadata {
	if m.filter == "" {
		return m.attributes
	}
	var out []dataverse.AttributeMetadata
	for _, a := range m.attributes {
		if strings.Contains(strings.ToLower(a.LogicalName), m.filter) ||
			strings.Contains(strings.ToLower(a.Label()), m.filter) {
			out = append(out, a)
		}
	}
	return out
}

func (m Model) pageSize() int {
	return max(m.height-8, 5)
}

func (m Model) rebuildTables() Model {
	m.attrTable = eztable.FromAttributes(m.filteredAttributes()).
		WithPageSize(m.pageSize()).
		WithMaxTotalWidth(max(m.width-2, 20))
	m.relTable = eztable.FromRelationships(m.entity.LogicalName, m.relationships).
		WithPageSize(m.pageSize()).
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

	case EntityLoadedMsg:
		if msg.LogicalName != m.entity.LogicalName {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.attributes = msg.Attributes
			m.relationships = msg.Relationships
		}
		return m.rebuildTables(), nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.activeTab {
		case TabAttributes:
			m.attrTable, cmd = m.attrTable.Update(msg)
		case TabRelationships:
			m.relTable, cmd = m.relTable.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// RenderTabs renders the tab strip
func (m Model) RenderTabs() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		style := m.styles.TabInactive
		if Tab(i) == m.activeTab {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// View renders the header, tabs and the active tab's content. The Query
// tab body is rendered by the caller.
func (m Model) View() string {
	var view strings.Builder

	title := " Entity: " + m.entity.LogicalName
	if label := m.entity.Label(); label != m.entity.LogicalName {
		title += " (" + label + ")"
	}
	view.WriteString(m.styles.Title.Render(title))
	view.WriteString("\n")
	view.WriteString(m.RenderTabs())
	view.WriteString("\n\n")

	if m.activeTab == TabQuery {
		return view.String()
	}

	switch {
	case m.loading:
		view.WriteString(fmt.Sprintf("  %s Loading metadata...", m.spinner.View()))
	case m.err != nil:
		view.WriteString(m.styles.Faint.Render("  Failed to load metadata: " + m.err.Error()))
	default:
		view.WriteString(m.renderContent())
	}
	return view.String()
}

func (m Model) renderContent() string {
	switch m.activeTab {
	case TabAttributes:
		header := fmt.Sprintf(" Attributes (%d/%d)", len(m.filteredAttributes()), len(m.attributes))
		if m.filter != "" {
			header += "  filter: " + m.filter
		}
		return m.styles.Faint.Render(header) + "\n" + m.attrTable.View()
	case TabRelationships:
		if len(m.relationships) == 0 {
			return m.styles.Faint.Render("  (No relationships found)")
		}
		return m.styles.Faint.Render(fmt.Sprintf(" Relationships (%d)", len(m.relationships))) + "\n" + m.relTable.View()
	case TabMetadata:
		return m.renderMetadata()
	}
	return ""
}

func (m Model) renderMetadata() string {
	e := m.entity
	yesNo := func(b *bool) string {
		if b == nil {
			return "-"
		}
		if *b {
			return "Yes"
		}
		return "No"
	}
	otc := "-"
	if e.ObjectTypeCode != nil {
		otc = fmt.Sprint(*e.ObjectTypeCode)
	}
	fields := [][2]string{
		{"Logical Name", e.LogicalName},
		{"Display Name", e.Label()},
		{"Schema Name", e.SchemaName},
		{"Entity Set", e.EntitySetName},
		{"Primary ID", e.PrimaryIDAttribute},
		{"Primary Name", e.PrimaryNameAttribute},
		{"Object Type Code", otc},
		{"Custom", yesNo(e.IsCustomEntity)},
		{"Managed", yesNo(e.IsManaged)},
		{"Description", e.Description.Text()},
	}

	var b strings.Builder
	for _, f := range fields {
		value := f[1]
		if value == "" {
			value = "-"
		}
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("  %-18s", f[0])))
		b.WriteString(m.styles.Value.Render(value))
		b.WriteString("\n")
	}
	return b.String()
}
