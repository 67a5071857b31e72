package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/query"
)

// metadataTimeout bounds catalog and record loads. Query execution and page
// continuation are awaited until the server answers.
const metadataTimeout = 60 * time.Second

// executeGuided starts the guided query. The state is updated here and the
// request itself runs in the returned command.
func (m Model) executeGuided() (Model, tea.Cmd) {
	qs, err := m.guided.BeginExecute()
	if err != nil {
		if errors.Is(err, guided.ErrBusy) {
			m.statusMsg = "Query already running"
			return m, nil
		}
		m.errorMsg = err.Error()
		return m, nil
	}
	m.loading = true
	m.errorMsg = ""
	return m, tea.Batch(m.spinner.Tick, m.runQueryCmd(m.guided.Entity().LogicalName, qs, false))
}

// loadMore starts fetching the next page of the guided result.
func (m Model) loadMore() (Model, tea.Cmd) {
	link, err := m.guided.BeginLoadMore()
	if err != nil {
		if errors.Is(err, guided.ErrNoNextPage) {
			m.statusMsg = "No more pages"
		} else {
			m.statusMsg = err.Error()
		}
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.runQueryCmd(m.guided.Entity().LogicalName, link, true))
}

// runQueryCmd executes qs (or a next link) against the service
func (m Model) runQueryCmd(entity, qs string, more bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		started := time.Now()
		body, err := svc.Execute(context.Background(), qs)
		return QueryResultMsg{Entity: entity, Query: qs, Body: body, Started: started, LoadMore: more, Err: err}
	}
}

// runFetchXMLCmd submits the console contents
func (m Model) runFetchXMLCmd(fetchXML string) tea.Cmd {
	svc := m.svc
	catalog := m.catalog
	env := m.environment
	return func() tea.Msg {
		started := time.Now()
		res, err := svc.ExecuteFetchXML(context.Background(), fetchXML, catalog)
		return FetchXMLResultMsg{Environment: env, Query: fetchXML, Fetch: res, Started: started, Err: err}
	}
}

// loadRecordCmd fetches one record for the record detail popup
func (m Model) loadRecordCmd(ref recordRef) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
		defer cancel()

		body, err := svc.Record(ctx, ref.EntitySet, ref.ID)
		if err != nil {
			return RecordLoadedMsg{Ref: ref, Err: err}
		}
		return RecordLoadedMsg{Ref: ref, Result: query.ParseRecord(body)}
	}
}

// loadCatalogCmd fetches every entity definition
func (m Model) loadCatalogCmd() tea.Cmd {
	svc := m.svc
	env := m.environment
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
		defer cancel()

		entities, err := svc.Entities(ctx)
		return CatalogLoadedMsg{Environment: env, Entities: entities, Err: err}
	}
}

// switchEnvironmentCmd connects to env through the connector
func (m Model) switchEnvironmentCmd(env string) tea.Cmd {
	connect := m.connect
	e, err := m.config.GetEnvironment(env)
	return func() tea.Msg {
		if err != nil {
			return EnvironmentSwitchedMsg{Environment: env, Err: err}
		}
		svc, err := connect(*e)
		return EnvironmentSwitchedMsg{Environment: env, Service: svc, Err: err}
	}
}

// errorText shortens service errors for the status bar.
func errorText(err error) string {
	var reqErr *dataverse.RequestError
	if errors.As(err, &reqErr) {
		if msg := reqErr.Message(); msg != "" {
			return fmt.Sprintf("HTTP %d: %s", reqErr.Status, msg)
		}
	}
	return err.Error()
}
