package table

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/query"
)

// RowIndexKey is hidden row data holding the row's index in the source result.
const RowIndexKey = "__row"

// MaxColumnWidth caps a column's computed width.
const MaxColumnWidth = 40

var palette = config.DefaultConfig().Theme

// Init sets the palette from the configured theme.
func Init(theme config.Theme) {
	palette = theme
}

func color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// New creates a new bubble-table with the theme applied (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(color(palette.TextPrimary))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(color(palette.Highlight)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(color(palette.Success)).
			Bold(true)).
		Focused(true).
		BorderRounded()
}

// FromQueryResult builds a results grid. Lookup cells are colored and
// every row carries its source index under RowIndexKey.
func FromQueryResult(res *query.QueryResult, pageSize int) bbtable.Model {
	if res == nil || len(res.Columns) == 0 {
		return New(nil)
	}

	widths := calculateColumnWidths(res.Columns, res.Rows)
	var cols []bbtable.Column
	for _, c := range res.Columns {
		cols = append(cols, bbtable.NewColumn(c, c, min(widths[c], MaxColumnWidth)))
	}

	rows := make([]bbtable.Row, 0, len(res.Rows))
	for r, values := range res.Rows {
		rowData := bbtable.RowData{RowIndexKey: r}
		for c, val := range values {
			if c >= len(res.Columns) {
				break
			}
			style := GetValueStyle(val)
			if _, ok := res.Lookup(r, c); ok {
				style = LookupStyle()
			}
			rowData[res.Columns[c]] = bbtable.NewStyledCell(val, style)
		}
		rows = append(rows, bbtable.NewRow(rowData))
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	return New(cols).
		WithRows(rows).
		WithPageSize(pageSize)
}

// HighlightedIndex returns the source row index of the highlighted row.
func HighlightedIndex(t bbtable.Model) (int, bool) {
	row := t.HighlightedRow()
	if row.Data == nil {
		return 0, false
	}
	idx, ok := row.Data[RowIndexKey].(int)
	return idx, ok
}

// FromAttributes builds the attribute grid of the entity detail view
func FromAttributes(attrs []dataverse.AttributeMetadata) bbtable.Model {
	headers := []string{"Logical Name", "Display Name", "Type", "Required", "Custom"}
	var rowsData [][]string
	for _, a := range attrs {
		custom := a.IsCustomAttribute != nil && *a.IsCustomAttribute
		rowsData = append(rowsData, []string{a.LogicalName, a.Label(), a.TypeName(), yes(a.Required()), yes(custom)})
	}
	return fromStrings(headers, rowsData, map[string]lipgloss.Style{
		"Type":     lipgloss.NewStyle().Foreground(color(palette.TextFaint)),
		"Required": lipgloss.NewStyle().Foreground(color(palette.Warning)),
	})
}

// FromRelationships builds the relationship grid of the entity detail view
func FromRelationships(entity string, rels []dataverse.RelationshipMetadata) bbtable.Model {
	headers := []string{"Schema Name", "Kind", "Related Entity", "Attribute"}
	var rowsData [][]string
	for _, r := range rels {
		kind := strings.TrimSuffix(string(r.Kind), "Relationships")
		attr := r.ReferencingAttribute
		if r.Kind == dataverse.ManyToMany {
			attr = r.IntersectEntityName
		}
		rowsData = append(rowsData, []string{r.SchemaName, kind, r.RelatedEntity(entity), attr})
	}
	return fromStrings(headers, rowsData, map[string]lipgloss.Style{
		"Related Entity": LookupStyle(),
	})
}

// FromSolutions builds the solution list grid
func FromSolutions(sols []dataverse.Solution) bbtable.Model {
	headers := []string{"Name", "Unique Name", "Version", "Managed", "Installed"}
	var rowsData [][]string
	for _, s := range sols {
		rowsData = append(rowsData, []string{s.Label(), s.UniqueName, s.Version, yes(s.Managed()), dateOnly(s.InstalledOn)})
	}
	return fromStrings(headers, rowsData, map[string]lipgloss.Style{
		"Unique Name": lipgloss.NewStyle().Foreground(color(palette.TextSecondary)),
		"Managed":     lipgloss.NewStyle().Foreground(color(palette.Warning)),
	})
}

// FromComponents builds the component grid of a solution
func FromComponents(comps []dataverse.SolutionComponent) bbtable.Model {
	headers := []string{"Type", "Object ID", "Behavior"}
	var rowsData [][]string
	for _, c := range comps {
		behavior := ""
		if c.RootComponentBehavior != nil {
			behavior = strconv.Itoa(*c.RootComponentBehavior)
		}
		rowsData = append(rowsData, []string{c.TypeName(), c.ObjectID, behavior})
	}
	return fromStrings(headers, rowsData, map[string]lipgloss.Style{
		"Object ID": lipgloss.NewStyle().Foreground(color(palette.TextFaint)),
	})
}

// FromUsers builds the user list grid
func FromUsers(users []dataverse.SystemUser) bbtable.Model {
	headers := []string{"Name", "Email", "Business Unit", "Title", "Status"}
	var rowsData [][]string
	for _, u := range users {
		rowsData = append(rowsData, []string{u.Label(), u.Email, u.BusinessUnitName(), u.Title, u.Status()})
	}
	return fromStrings(headers, rowsData, map[string]lipgloss.Style{
		"Business Unit": lipgloss.NewStyle().Foreground(color(palette.TextSecondary)),
	})
}

// FromTeams builds the team membership grid
func FromTeams(teams []dataverse.Team) bbtable.Model {
	headers := []string{"Name", "Type", "Default", "Description"}
	var rowsData [][]string
	for _, t := range teams {
		rowsData = append(rowsData, []string{t.Name, t.TypeName(), yes(t.IsDefault), t.Description})
	}
	return fromStrings(headers, rowsData, nil)
}

// FromRoles builds a security role grid
func FromRoles(roles []dataverse.SecurityRole) bbtable.Model {
	headers := []string{"Role", "Business Unit", "Managed"}
	var rowsData [][]string
	for _, r := range roles {
		rowsData = append(rowsData, []string{r.Name, r.BusinessUnitName(), yes(r.IsManaged)})
	}
	return fromStrings(headers, rowsData, nil)
}

// FromRoleAssignments builds the combined role grid with each role's source
func FromRoleAssignments(all []dataverse.RoleAssignment) bbtable.Model {
	headers := []string{"Role", "Source", "Business Unit"}
	var rowsData [][]string
	for _, a := range all {
		rowsData = append(rowsData, []string{a.Role.Name, a.Source(), a.Role.BusinessUnitName()})
	}
	return fromStrings(headers, rowsData, map[string]lipgloss.Style{
		"Source": LookupStyle(),
	})
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// dateOnly trims an ISO timestamp to its date.
func dateOnly(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func fromStrings(headers []string, rowsData [][]string, styles map[string]lipgloss.Style) bbtable.Model {
	widths := calculateColumnWidths(headers, rowsData)
	cols := make([]bbtable.Column, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, bbtable.NewColumn(h, h, min(widths[h], MaxColumnWidth)))
	}

	rows := make([]bbtable.Row, 0, len(rowsData))
	for i, rd := range rowsData {
		data := bbtable.RowData{RowIndexKey: i}
		for j, h := range headers {
			if style, ok := styles[h]; ok {
				data[h] = bbtable.NewStyledCell(rd[j], style)
			} else {
				data[h] = rd[j]
			}
		}
		rows = append(rows, bbtable.NewRow(data))
	}
	return New(cols).WithRows(rows)
}

func calculateColumnWidths(headers []string, rows [][]string) map[string]int {
	widths := make(map[string]int)
	for _, h := range headers {
		widths[h] = lipgloss.Width(h)
	}

	for _, row := range rows {
		for i, val := range row {
			if i < len(headers) {
				if w := lipgloss.Width(val); w > widths[headers[i]] {
					widths[headers[i]] = w
				}
			}
		}
	}

	// Add padding
	for h := range widths {
		widths[h] += 2
	}

	return widths
}

// LookupStyle marks cells that reference another record.
func LookupStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color(palette.Lookup)).Underline(true)
}

// GetValueStyle returns a lipgloss style based on value content
func GetValueStyle(val string) lipgloss.Style {
	if val == "" || val == query.EmptyCell {
		return lipgloss.NewStyle().Foreground(color(palette.TextFaint)).Italic(true)
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return lipgloss.NewStyle().Foreground(color(palette.TextSecondary))
	}
	lower := strings.ToLower(val)
	if lower == "true" || lower == "false" {
		return lipgloss.NewStyle().Foreground(color(palette.Warning))
	}
	return lipgloss.NewStyle().Foreground(color(palette.TextPrimary))
}
