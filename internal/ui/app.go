// internal/ui/app.go
package ui

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/history"
	"github.com/nhath/ezdv/internal/query"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	"github.com/nhath/ezdv/internal/ui/components/solutionlist"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
	"github.com/nhath/ezdv/internal/ui/components/userlist"
)

// Update handles messages and updates model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m.resize(), nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.loading || m.loadingCatalog || m.recordLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		cmds = append(cmds, cmd)
		m.solutions, cmd = m.solutions.Update(msg)
		cmds = append(cmds, cmd)
		m.users, cmd = m.users.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case CatalogLoadedMsg:
		return m.handleCatalogLoaded(msg), nil

	case entitydetail.EntityLoadedMsg:
		return m.handleEntityLoaded(msg), nil

	case solutionlist.LoadedMsg, solutionlist.ComponentsLoadedMsg:
		var cmd tea.Cmd
		m.solutions, cmd = m.solutions.Update(msg)
		if err := m.solutions.Err(); err != nil {
			m.errorMsg = errorText(err)
		}
		return m, cmd

	case userlist.LoadedMsg, userlist.DetailLoadedMsg:
		var cmd tea.Cmd
		m.users, cmd = m.users.Update(msg)
		if err := m.users.Err(); err != nil {
			m.errorMsg = errorText(err)
		}
		return m, cmd

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case FetchXMLResultMsg:
		return m.handleFetchXMLResult(msg)

	case RecordLoadedMsg:
		return m.handleRecordLoaded(msg), nil

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.errorMsg = "History: " + msg.Err.Error()
			return m, nil
		}
		m.setHistory(msg.Entries)
		return m, nil

	case HistorySavedMsg:
		if msg.Err != nil {
			log.Printf("history: %v", msg.Err)
		}
		return m, nil

	case ExportCompleteMsg:
		if msg.Err != nil {
			m.errorMsg = "Export failed: " + msg.Err.Error()
		} else {
			m.statusMsg = fmt.Sprintf("Exported %d rows to %s", msg.Rows, msg.Path)
		}
		return m, nil

	case EnvironmentSwitchedMsg:
		return m.handleEnvironmentSwitched(msg)

	case ClipboardCopiedMsg:
		if msg.Err != nil {
			m.errorMsg = fmt.Sprintf("Clipboard error: %v", msg.Err)
		} else {
			m.statusMsg = "Copied " + limitString(msg.Text, 30)
		}
		return m, nil

	case PagerFinishedMsg:
		if msg.Err != nil {
			m.errorMsg = fmt.Sprintf("Pager error: %v", msg.Err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Any key clears transient notifications
		m.statusMsg = ""
		if !m.popupStack.IsEmpty() {
			return m.handlePopupKeys(msg)
		}
		switch m.view {
		case ViewEntities:
			return m.handleEntityListKeys(msg)
		case ViewEntityDetail:
			return m.handleDetailKeys(msg)
		case ViewFetchXML:
			return m.handleFetchXMLKeys(msg)
		case ViewHistory:
			return m.handleHistoryKeys(msg)
		case ViewSolutions:
			return m.handleSolutionKeys(msg)
		case ViewUsers:
			return m.handleUserKeys(msg)
		}
	}
	return m, nil
}

// resize propagates the window size to sized components
func (m Model) resize() Model {
	body := m.bodyHeight()
	m.detail = m.detail.SetSize(m.width, body)
	m.solutions = m.solutions.SetSize(m.width, body)
	m.users = m.users.SetSize(m.width, body)
	m.historyList = m.historyList.SetSize(m.width, max(body-2, 1))
	m.fetchEditor.SetWidth(max(m.width-4, 20))
	m.fetchEditor.SetHeight(max(body/3, 4))
	m.recordPopup = m.recordPopup.SetScreenSize(m.width, m.height)
	m.jsonPopup = m.jsonPopup.SetScreenSize(m.width, m.height)
	m.helpPopup = m.helpPopup.SetScreenSize(m.width, m.height)
	m.refreshResultsTable()
	m.refreshFetchTable()
	return m
}

// bodyHeight is the space left for a view after the status and help lines
func (m Model) bodyHeight() int {
	return max(m.height-2, 1)
}

// tablePageSize is the number of grid rows that fit under the guided sections
func (m Model) tablePageSize() int {
	return max(m.bodyHeight()-14, 3)
}

func (m *Model) refreshResultsTable() {
	m.resultsTable = eztable.FromQueryResult(m.guided.Result(), m.tablePageSize()).
		WithMaxTotalWidth(max(m.width-2, 20))
}

func (m *Model) refreshFetchTable() {
	m.fetchTable = eztable.FromQueryResult(m.fetchResult, max(m.bodyHeight()-m.fetchEditor.Height()-8, 3)).
		WithMaxTotalWidth(max(m.width-2, 20))
}

func (m Model) handleCatalogLoaded(msg CatalogLoadedMsg) Model {
	if msg.Environment != m.environment {
		return m
	}
	m.loadingCatalog = false
	if msg.Err != nil {
		m.errorMsg = "Failed to load entities: " + errorText(msg.Err)
		return m
	}
	m.catalog.Replace(msg.Entities)
	m.applyEntitySearch()
	m.statusMsg = fmt.Sprintf("Loaded %d entities", m.catalog.Len())
	return m
}

// handleEntityLoaded feeds the detail view and resets the guided query
// once the entity's attributes are known.
func (m Model) handleEntityLoaded(msg entitydetail.EntityLoadedMsg) Model {
	m.detail, _ = m.detail.Update(msg)
	if msg.LogicalName != m.detail.Entity().LogicalName || msg.Err != nil {
		if msg.Err != nil {
			m.errorMsg = errorText(msg.Err)
		}
		return m
	}

	entity := m.detail.Entity()
	attrs := make([]guided.Attribute, 0, len(msg.Attributes))
	for _, a := range msg.Attributes {
		attrs = append(attrs, guided.Attribute{Name: a.LogicalName, DisplayName: a.Label(), Type: a.TypeName()})
	}
	m.guided.Reset(guided.Entity{LogicalName: entity.LogicalName, EntitySetName: entity.EntitySetName}, attrs)
	if m.config.PageSize > 0 {
		m.guided.SetTop(m.config.PageSize)
	}
	m.optionRow = 0
	m.editingTop = false
	m.refreshResultsTable()
	return m
}

func (m Model) handleQueryResult(msg QueryResultMsg) (Model, tea.Cmd) {
	if msg.Entity != m.guided.Entity().LogicalName {
		// Entity changed while the request was in flight
		return m, nil
	}
	m.loading = false
	if msg.LoadMore {
		m.guided.CompleteLoadMore(msg.Body, msg.Err)
	} else {
		m.guided.CompleteExecute(msg.Body, msg.Err)
	}
	m.refreshResultsTable()

	res := m.guided.Result()
	switch {
	case msg.Err != nil:
		m.errorMsg = errorText(msg.Err)
	case res != nil && res.Failed():
		m.errorMsg = res.Error
	default:
		m.errorMsg = ""
	}
	if msg.LoadMore {
		if msg.Err == nil && res != nil {
			m.statusMsg = fmt.Sprintf("%d rows loaded", res.RowCount())
		}
		return m, nil
	}
	if msg.Err != nil {
		res = nil
	}
	return m, m.recordHistoryCmd(history.KindGuided, msg.Entity, msg.Query, msg.Started, res, msg.Err)
}

func (m Model) handleFetchXMLResult(msg FetchXMLResultMsg) (Model, tea.Cmd) {
	if msg.Environment != m.environment {
		return m, nil
	}
	m.loading = false
	if msg.Err != nil {
		m.errorMsg = errorText(msg.Err)
		return m, m.recordHistoryCmd(history.KindFetchXML, msg.Fetch.EntityName, msg.Query, msg.Started, nil, msg.Err)
	}

	res := query.Parse(msg.Fetch.Body)
	res.RawJSON = string(msg.Fetch.Body)
	m.fetchResult = &res
	m.fetchEntity = msg.Fetch.EntityName
	m.fetchFocus = true
	m.fetchEditor.Blur()
	m.refreshFetchTable()

	m.errorMsg = res.Error
	if msg.Fetch.Guessed {
		m.statusMsg = fmt.Sprintf("Entity set guessed as %s", msg.Fetch.EntitySetName)
	}
	return m, m.recordHistoryCmd(history.KindFetchXML, msg.Fetch.EntityName, msg.Query, msg.Started, &res, nil)
}

func (m Model) handleEnvironmentSwitched(msg EnvironmentSwitchedMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.Err != nil {
		m.errorMsg = "Connect failed: " + errorText(msg.Err)
		return m, nil
	}
	if err := m.config.UseEnvironment(msg.Environment); err != nil {
		log.Printf("config: %v", err)
	}

	m.svc = msg.Service
	m.environment = msg.Environment
	m.catalog.Replace(nil)
	m.entities = nil
	m.entityCursor = 0
	m.guided.Reset(guided.Entity{}, nil)
	m.fetchResult = nil
	m.solutions = m.solutions.Reset()
	m.users = m.users.Reset()
	m.setHistory(nil)
	m.popupStack.CloseAll(&m)
	m.view = ViewEntities
	m.loadingCatalog = true
	m.statusMsg = "Switched to " + msg.Environment
	m.refreshResultsTable()
	m.refreshFetchTable()
	return m, tea.Batch(m.spinner.Tick, m.loadCatalogCmd())
}

// openEntity shows the detail view for entity and starts loading it
func (m Model) openEntity(entity dataverse.EntityMetadata) (Model, tea.Cmd) {
	m.view = ViewEntityDetail
	m.filtering = false
	m.filterInput.SetValue("")
	if m.guided.InFlight() {
		// the abandoned request no longer owns the spinner
		m.loading = false
	}
	m.guided.Reset(guided.Entity{LogicalName: entity.LogicalName, EntitySetName: entity.EntitySetName}, nil)
	m.refreshResultsTable()
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Open(m.svc, entity)
	return m, cmd
}
