// Package userlist lists system users and shows the roles and teams of
// the one opened.
package userlist

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/nhath/ezdv/internal/dataverse"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
)

// Tab is one of the user detail tabs.
type Tab int

const (
	TabDirectRoles Tab = iota
	TabTeams
	TabAllRoles
	TabInfo
)

var tabNames = [...]string{"Direct Roles", "Teams", "All Roles", "Info"}

func (t Tab) String() string {
	return tabNames[t]
}

// Source lists users, their teams and the roles held by users and teams.
type Source interface {
	Users(ctx context.Context, includeDisabled bool) ([]dataverse.SystemUser, error)
	UserTeams(ctx context.Context, userID string) ([]dataverse.Team, error)
	UserRoles(ctx context.Context, userID string) ([]dataverse.SecurityRole, error)
	TeamRoles(ctx context.Context, teamID string) ([]dataverse.SecurityRole, error)
}

// LoadedMsg carries the user list
type LoadedMsg struct {
	Gen   int
	Users []dataverse.SystemUser
	Err   error
}

// DetailLoadedMsg carries the roles and teams of one user
type DetailLoadedMsg struct {
	Gen    int
	UserID string
	Roles  []dataverse.SecurityRole
	Teams  []dataverse.Team
	All    []dataverse.RoleAssignment
	Err    error
}

// Styles for the user views
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Faint       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
}

// Model holds the user list and the opened user's detail.
type Model struct {
	users           []dataverse.SystemUser
	filtered        []dataverse.SystemUser
	filter          string
	includeDisabled bool
	loaded          bool

	open      *dataverse.SystemUser
	activeTab Tab
	roles     []dataverse.SecurityRole
	teams     []dataverse.Team
	all       []dataverse.RoleAssignment

	gen       int
	loading   bool
	err       error
	spinner   spinner.Model
	listTable table.Model
	roleTable table.Model
	teamTable table.Model
	allTable  table.Model
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

// Load fetches the user list
func (m Model) Load(src Source) (Model, tea.Cmd) {
	m.gen++
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, LoadCmd(src, m.gen, m.includeDisabled))
}

// ToggleDisabled flips whether disabled users are listed and reloads
func (m Model) ToggleDisabled(src Source) (Model, tea.Cmd) {
	m.includeDisabled = !m.includeDisabled
	return m.Load(src)
}

// IncludeDisabled reports whether disabled users are listed
func (m Model) IncludeDisabled() bool { return m.includeDisabled }

// LoadCmd fetches the users
func LoadCmd(src Source, gen int, includeDisabled bool) tea.Cmd {
	return func() tea.Msg {
		users, err := src.Users(context.Background(), includeDisabled)
		return LoadedMsg{Gen: gen, Users: users, Err: err}
	}
}

// LoadDetailCmd fetches the direct roles and teams of userID, then the
// roles of every team. A team whose roles cannot be read is left out of
// the combined list.
func LoadDetailCmd(src Source, gen int, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := DetailLoadedMsg{Gen: gen, UserID: userID}

		var rolesErr, teamsErr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			msg.Roles, rolesErr = src.UserRoles(ctx, userID)
		}()
		go func() {
			defer wg.Done()
			msg.Teams, teamsErr = src.UserTeams(ctx, userID)
		}()
		wg.Wait()
		if rolesErr != nil {
			msg.Err = rolesErr
			return msg
		}
		if teamsErr != nil {
			msg.Err = teamsErr
			return msg
		}

		teamRoles := make([][]dataverse.SecurityRole, len(msg.Teams))
		for i, team := range msg.Teams {
			wg.Add(1)
			go func(i int, team dataverse.Team) {
				defer wg.Done()
				roles, err := src.TeamRoles(ctx, team.ID)
				if err != nil {
					log.Printf("team roles %s: %v", team.Name, err)
					return
				}
				teamRoles[i] = roles
			}(i, team)
		}
		wg.Wait()

		msg.All = dataverse.MergeRoles(msg.Roles, msg.Teams, teamRoles)
		return msg
	}
}

// Loaded reports whether the list has been fetched successfully
func (m Model) Loaded() bool { return m.loaded }

// Loading reports whether a request is pending
func (m Model) Loading() bool { return m.loading }

// Err returns the last load error
func (m Model) Err() error { return m.err }

// Users returns the users matching the filter
func (m Model) Users() []dataverse.SystemUser { return m.filtered }

// Roles returns the opened user's direct roles
func (m Model) Roles() []dataverse.SecurityRole { return m.roles }

// Teams returns the opened user's teams
func (m Model) Teams() []dataverse.Team { return m.teams }

// AllRoles returns direct and team roles combined
func (m Model) AllRoles() []dataverse.RoleAssignment { return m.all }

// Opened returns the user whose detail is shown
func (m Model) Opened() (dataverse.SystemUser, bool) {
	if m.open == nil {
		return dataverse.SystemUser{}, false
	}
	return *m.open, true
}

// Selected returns the highlighted user of the list
func (m Model) Selected() (dataverse.SystemUser, bool) {
	idx, ok := eztable.HighlightedIndex(m.listTable)
	if !ok || idx >= len(m.filtered) {
		return dataverse.SystemUser{}, false
	}
	return m.filtered[idx], true
}

// OpenSelected shows the highlighted user and loads roles and teams
func (m Model) OpenSelected(src Source) (Model, tea.Cmd) {
	user, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.open = &user
	m.activeTab = TabDirectRoles
	m.roles, m.teams, m.all = nil, nil, nil
	m.loading = true
	m.err = nil
	m = m.rebuildTables()
	return m, tea.Batch(m.spinner.Tick, LoadDetailCmd(src, m.gen, user.ID))
}

// Close returns from the detail to the list
func (m Model) Close() Model {
	m.open = nil
	m.roles, m.teams, m.all = nil, nil, nil
	m.loading = false
	m.err = nil
	return m.rebuildTables()
}

// ActiveTab returns the selected detail tab
func (m Model) ActiveTab() Tab { return m.activeTab }

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

// SetFilter narrows the list by name, domain name or email
func (m Model) SetFilter(term string) Model {
	m.filter = strings.ToLower(strings.TrimSpace(term))
	m.applyFilter()
	return m.rebuildTables()
}

// Filter returns the active filter
func (m Model) Filter() string { return m.filter }

func (m *Model) applyFilter() {
	if m.filter == "" {
		m.filtered = m.users
		return
	}
	m.filtered = nil
	for _, u := range m.users {
		for _, s := range []string{u.FullName, u.DomainName, u.Email} {
			if strings.Contains(strings.ToLower(s), m.filter) {
				m.filtered = append(m.filtered, u)
				break
			}
		}
	}
}

func (m Model) pageSize() int {
	return max(m.height-6, 5)
}

func (m Model) rebuildTables() Model {
	w := max(m.width-2, 20)
	m.listTable = eztable.FromUsers(m.filtered).WithPageSize(m.pageSize()).WithMaxTotalWidth(w)
	m.roleTable = eztable.FromRoles(m.roles).WithPageSize(m.pageSize()).WithMaxTotalWidth(w)
	m.teamTable = eztable.FromTeams(m.teams).WithPageSize(m.pageSize()).WithMaxTotalWidth(w)
	m.allTable = eztable.FromRoleAssignments(m.all).WithPageSize(m.pageSize()).WithMaxTotalWidth(w)
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
			m.users = msg.Users
			m.loaded = true
			m.applyFilter()
		}
		return m.rebuildTables(), nil

	case DetailLoadedMsg:
		if msg.Gen != m.gen || m.open == nil || msg.UserID != m.open.ID {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.roles, m.teams, m.all = msg.Roles, msg.Teams, msg.All
		}
		return m.rebuildTables(), nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch {
		case m.open == nil:
			m.listTable, cmd = m.listTable.Update(msg)
		case m.activeTab == TabDirectRoles:
			m.roleTable, cmd = m.roleTable.Update(msg)
		case m.activeTab == TabTeams:
			m.teamTable, cmd = m.teamTable.Update(msg)
		case m.activeTab == TabAllRoles:
			m.allTable, cmd = m.allTable.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View renders the list or the opened user
func (m Model) View() string {
	if m.open != nil {
		return m.viewDetail()
	}

	var b strings.Builder
	header := fmt.Sprintf(" Users (%d/%d)", len(m.filtered), len(m.users))
	if m.includeDisabled {
		header += "  incl. disabled"
	}
	if m.filter != "" {
		header += "  filter: " + m.filter
	}
	b.WriteString(m.styles.Title.Render(header))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("  %s Loading users...", m.spinner.View()))
	case m.err != nil:
		b.WriteString(m.styles.Faint.Render("  Failed to load users: " + m.err.Error()))
	case len(m.filtered) == 0:
		b.WriteString(m.styles.Faint.Render("  (No users found)"))
	default:
		b.WriteString(m.listTable.View())
	}
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(" User: " + m.open.Label()))
	b.WriteString("\n")

	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		style := m.styles.TabInactive
		if Tab(i) == m.activeTab {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(name))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.activeTab == TabInfo {
		b.WriteString(m.renderInfo())
		return b.String()
	}

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("  %s Loading roles and teams...", m.spinner.View()))
		return b.String()
	case m.err != nil:
		b.WriteString(m.styles.Faint.Render("  Failed to load user details: " + m.err.Error()))
		return b.String()
	}

	switch m.activeTab {
	case TabDirectRoles:
		b.WriteString(m.section(fmt.Sprintf(" Direct roles (%d)", len(m.roles)), len(m.roles), m.roleTable))
	case TabTeams:
		b.WriteString(m.section(fmt.Sprintf(" Teams (%d)", len(m.teams)), len(m.teams), m.teamTable))
	case TabAllRoles:
		b.WriteString(m.section(fmt.Sprintf(" All roles (%d)", len(m.all)), len(m.all), m.allTable))
	}
	return b.String()
}

func (m Model) section(header string, n int, t table.Model) string {
	if n == 0 {
		return m.styles.Faint.Render("  (None)")
	}
	return m.styles.Faint.Render(header) + "\n" + t.View()
}

func (m Model) renderInfo() string {
	u := m.open
	fields := [][2]string{
		{"Full Name", u.FullName},
		{"Domain Name", u.DomainName},
		{"Email", u.Email},
		{"Title", u.Title},
		{"Business Unit", u.BusinessUnitName()},
		{"Status", u.Status()},
		{"Created", u.CreatedOn},
		{"User ID", u.ID},
	}
	var b strings.Builder
	for _, f := range fields {
		value := f[1]
		if value == "" {
			value = "-"
		}
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("  %-16s", f[0])))
		b.WriteString(m.styles.Value.Render(value))
		b.WriteString("\n")
	}
	return b.String()
}
