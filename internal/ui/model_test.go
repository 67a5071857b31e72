package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/export"
	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/history"
	"github.com/nhath/ezdv/internal/query"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	"github.com/nhath/ezdv/internal/ui/components/solutionlist"
	"github.com/nhath/ezdv/internal/ui/components/userlist"
)

// fakeService serves canned metadata and records every request.
type fakeService struct {
	deadlines []bool
	queries   []string
	records   []string
	fetches   []string
	bodies    map[string][]byte
	recordRaw []byte
	fetchBody []byte
}

func (f *fakeService) Execute(ctx context.Context, qs string) ([]byte, error) {
	_, ok := ctx.Deadline()
	f.deadlines = append(f.deadlines, ok)
	f.queries = append(f.queries, qs)
	if body, ok := f.bodies[qs]; ok {
		return body, nil
	}
	return []byte(`{"value": []}`), nil
}

func (f *fakeService) Attributes(_ context.Context, logicalName string) ([]dataverse.AttributeMetadata, error) {
	return []dataverse.AttributeMetadata{
		{LogicalName: "name", AttributeType: "String"},
		{LogicalName: "accountid", AttributeType: "Uniqueidentifier"},
		{LogicalName: "revenue", AttributeType: "Money"},
	}, nil
}

func (f *fakeService) Relationships(context.Context, string, dataverse.RelationshipKind) ([]dataverse.RelationshipMetadata, error) {
	return nil, nil
}

func (f *fakeService) EnvironmentURL() string { return "https://org.crm.dynamics.com" }

func (f *fakeService) Entities(context.Context) ([]dataverse.EntityMetadata, error) {
	return testEntities(), nil
}

func (f *fakeService) Record(_ context.Context, entitySet, id string) ([]byte, error) {
	f.records = append(f.records, entitySet+"("+id+")")
	return f.recordRaw, nil
}

func (f *fakeService) ExecuteFetchXML(ctx context.Context, fetchXML string, sets dataverse.EntitySetResolver) (dataverse.FetchResult, error) {
	_, ok := ctx.Deadline()
	f.deadlines = append(f.deadlines, ok)
	f.fetches = append(f.fetches, fetchXML)
	name, err := query.ExtractFetchEntityName(fetchXML)
	if err != nil {
		return dataverse.FetchResult{}, err
	}
	set, authoritative := sets.EntitySetName(name)
	return dataverse.FetchResult{EntityName: name, EntitySetName: set, Guessed: !authoritative, Body: f.fetchBody}, nil
}

func (f *fakeService) Solutions(context.Context) ([]dataverse.Solution, error) {
	return []dataverse.Solution{
		{SolutionID: "s1", UniqueName: "Default", FriendlyName: "Default Solution"},
		{SolutionID: "s2", UniqueName: "contoso_core", FriendlyName: "Contoso Core"},
	}, nil
}

func (f *fakeService) SolutionComponents(context.Context, string) ([]dataverse.SolutionComponent, error) {
	return []dataverse.SolutionComponent{{ComponentType: 1, ObjectID: "o1"}}, nil
}

func (f *fakeService) Users(_ context.Context, includeDisabled bool) ([]dataverse.SystemUser, error) {
	users := []dataverse.SystemUser{{ID: "u1", FullName: "Ada Lovelace"}}
	if includeDisabled {
		users = append(users, dataverse.SystemUser{ID: "u2", FullName: "Old Account", IsDisabled: true})
	}
	return users, nil
}

func (f *fakeService) UserTeams(context.Context, string) ([]dataverse.Team, error) {
	return []dataverse.Team{{ID: "t1", Name: "Sales"}}, nil
}

func (f *fakeService) UserRoles(context.Context, string) ([]dataverse.SecurityRole, error) {
	return []dataverse.SecurityRole{{Name: "Salesperson"}}, nil
}

func (f *fakeService) TeamRoles(context.Context, string) ([]dataverse.SecurityRole, error) {
	return []dataverse.SecurityRole{{Name: "Basic User"}}, nil
}

func testEntities() []dataverse.EntityMetadata {
	return []dataverse.EntityMetadata{
		{LogicalName: "account", EntitySetName: "accounts"},
		{LogicalName: "contact", EntitySetName: "contacts"},
	}
}

func newTestModel(t *testing.T, svc *fakeService, store *history.Store) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	m := NewModel(cfg, "dev", svc, nil, store)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(m, CatalogLoadedMsg{Environment: "dev", Entities: testEntities()})
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "f5":
		return tea.KeyMsg{Type: tea.KeyF5}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = update(m, key(k))
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

// openAccountQuery opens the account entity and lands on the Query tab.
func openAccountQuery(t *testing.T, m Model, svc *fakeService) Model {
	t.Helper()
	m = press(m, "enter")
	require.Equal(t, ViewEntityDetail, m.view)
	m, _ = update(m, entitydetail.LoadEntityCmd(svc, "account")())
	m = press(m, "enter")
	require.Equal(t, entitydetail.TabQuery, m.detail.ActiveTab())
	return m
}

func TestCatalogLoadAndSearch(t *testing.T) {
	m := newTestModel(t, &fakeService{}, nil)
	assert.False(t, m.loadingCatalog)
	assert.Len(t, m.entities, 2)
	assert.Equal(t, "Loaded 2 entities", m.statusMsg)

	m = press(m, "/")
	assert.True(t, m.searching)
	m = typeText(m, "cont")
	require.Len(t, m.entities, 1)
	assert.Equal(t, "contact", m.entities[0].LogicalName)

	m = press(m, "esc")
	assert.False(t, m.searching)
	assert.Len(t, m.entities, 2)
}

func TestCatalogFromOtherEnvironmentIgnored(t *testing.T) {
	m := NewModel(config.DefaultConfig(), "dev", &fakeService{}, nil, nil)
	require.True(t, m.loadingCatalog)

	m, _ = update(m, CatalogLoadedMsg{Environment: "prod", Entities: testEntities()})
	assert.True(t, m.loadingCatalog)
	assert.Empty(t, m.entities)
}

func TestGuidedQueryFlow(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	cols := m.guided.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "accountid", cols[0].Name, "attributes arrive sorted")

	// Select name and filter on it
	m = press(m, "down", "space", "enter")
	p, pending := m.guided.Pending()
	require.True(t, pending)
	assert.Equal(t, "name", p.Attribute)
	m = typeText(m, "O'Neil")
	m = press(m, "enter")
	assert.Empty(t, m.errorMsg)
	require.Len(t, m.guided.Filters(), 1)

	qs := "accounts?$select=name&$filter=name eq 'O''Neil'&$top=50"
	assert.Equal(t, qs, m.guided.QueryString())
	assert.Contains(t, m.View(), "Filters (1)")

	m = press(m, "f5")
	assert.True(t, m.loading)
	assert.True(t, m.guided.InFlight())
	assert.Equal(t, guided.ModeResults, m.guided.Mode())

	m = press(m, "f5")
	assert.Equal(t, "Query already running", m.statusMsg)

	m, _ = update(m, m.runQueryCmd("account", qs, false)().(QueryResultMsg))
	assert.Equal(t, []string{qs}, svc.queries)
	assert.False(t, m.guided.InFlight())
	require.NotNil(t, m.guided.Result())
	assert.Contains(t, m.View(), "Results (0 rows)")
}

func TestLoadMoreMergesPages(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5")
	qs := m.guided.QueryString()
	m, _ = update(m, QueryResultMsg{
		Entity: "account",
		Query:  qs,
		Body:   []byte(`{"value":[{"name":"A"}],"@odata.nextLink":"https://org/api/data/v9.2/accounts?$skiptoken=1"}`),
	})
	require.True(t, m.guided.Result().HasMore())
	assert.Contains(t, m.View(), "[Press 'n' for more]")

	m = press(m, "n")
	require.True(t, m.guided.InFlight())
	m, _ = update(m, QueryResultMsg{
		Entity:   "account",
		Query:    "https://org/api/data/v9.2/accounts?$skiptoken=1",
		Body:     []byte(`{"value":[{"name":"B"}]}`),
		LoadMore: true,
	})
	res := m.guided.Result()
	require.Equal(t, 2, res.RowCount())
	assert.False(t, res.HasMore())
	assert.Equal(t, "2 rows loaded", m.statusMsg)

	m = press(m, "n")
	assert.Equal(t, "No more pages", m.statusMsg)
}

func TestTransportErrorKeepsPreviousResult(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5")
	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(`{"value":[{"name":"A"}]}`)})
	require.Equal(t, 1, m.guided.Result().RowCount())

	m = press(m, "f5")
	m, _ = update(m, QueryResultMsg{Entity: "account", Err: &dataverse.RequestError{
		Status: 400,
		Body:   `{"error":{"code":"0x0","message":"Could not find a property named 'x'"}}`,
	}})
	assert.Equal(t, "HTTP 400: Could not find a property named 'x'", m.errorMsg)
	assert.Equal(t, 1, m.guided.Result().RowCount())
}

func TestStaleQueryResultIgnored(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5")
	m, _ = update(m, QueryResultMsg{Entity: "contact", Body: []byte(`{"value":[{"fullname":"x"}]}`)})
	assert.Nil(t, m.guided.Result())
	assert.True(t, m.guided.InFlight())
	assert.True(t, m.loading)

	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(`{"value":[{"name":"A"}]}`)})
	assert.False(t, m.loading)
	assert.Equal(t, 1, m.guided.Result().RowCount())
}

func TestLeavingEntityReleasesSpinner(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5")
	require.True(t, m.loading)
	m, _ = m.openEntity(testEntities()[1])
	assert.False(t, m.loading)

	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(`{"value":[{"name":"A"}]}`)})
	assert.Nil(t, m.guided.Result())
}

func TestExecutionHasNoDeadline(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m.runQueryCmd("account", "accounts?$top=5", false)()
	m.runQueryCmd("account", "https://org.crm.dynamics.com/api/data/v9.2/accounts?$skiptoken=1", true)()
	m.runFetchXMLCmd(`<fetch><entity name="account"/></fetch>`)()
	assert.Equal(t, []bool{false, false, false}, svc.deadlines)
}

func TestMalformedResponseShowsError(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5")
	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(`{"rows":[]}`)})
	assert.Equal(t, "Invalid response format: missing 'value' array", m.errorMsg)
}

func TestOptionsAndClear(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "tab", "tab")
	require.Equal(t, guided.ModeOptions, m.guided.Mode())

	// Order by the highlighted column, then flip direction
	m = press(m, "enter", "d")
	assert.Equal(t, "accountid desc", m.guided.OrderBy().String())

	// Edit $top
	m = press(m, "down", "enter")
	require.True(t, m.editingTop)
	m.topInput.SetValue("abc")
	m = press(m, "enter")
	assert.NotEmpty(t, m.errorMsg)
	assert.True(t, m.editingTop)
	m.topInput.SetValue("7")
	m = press(m, "enter")
	assert.False(t, m.editingTop)
	n, ok := m.guided.Top()
	require.True(t, ok)
	assert.Equal(t, 7, n)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, "Query cleared", m.statusMsg)
	assert.Equal(t, "accounts", m.guided.QueryString())
	assert.Equal(t, guided.ModeColumns, m.guided.Mode())
}

func TestPendingFilterOperatorCycle(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "enter")
	m = press(m, "down", "down")
	p, _ := m.guided.Pending()
	assert.Equal(t, query.Contains, p.Operator)

	m = press(m, "up")
	p, _ = m.guided.Pending()
	assert.Equal(t, query.NotEquals, p.Operator)

	// Equals needs a value
	m = press(m, "up", "enter")
	assert.NotEmpty(t, m.errorMsg)
	_, pending := m.guided.Pending()
	assert.True(t, pending)

	m = press(m, "esc")
	_, pending = m.guided.Pending()
	assert.False(t, pending)
	assert.Empty(t, m.guided.Filters())
}

const lookupBody = `{"value":[{
	"name": "Contoso",
	"_primarycontactid_value": "0b9c1a1e-6f44-4c7a-8f0e-1a2b3c4d5e6f",
	"_primarycontactid_value@Microsoft.Dynamics.CRM.lookuplogicalname": "contact",
	"_primarycontactid_value@OData.Community.Display.V1.FormattedValue": "Jane Doe"
}]}`

func TestRecordPopupLookupNavigation(t *testing.T) {
	svc := &fakeService{recordRaw: []byte(`{"fullname":"Jane Doe","emailaddress1":null}`)}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5")
	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(lookupBody)})

	m = press(m, "enter")
	require.Equal(t, popupRecord, m.popupStack.TopName())
	assert.Contains(t, m.recordPopup.Title(), "Row 1")
	info, ok := m.recordResult.Lookup(0, 0)
	require.True(t, ok, "lookups are re-keyed to the single row")
	assert.Equal(t, "contact", info.LogicalName)
	assert.Contains(t, m.View(), "Jane Doe")

	m = press(m, "enter")
	require.True(t, m.recordLoading)
	require.Len(t, m.recordStack, 1)

	ref := recordRef{LogicalName: "contact", EntitySet: "contacts", ID: info.ID}
	m, _ = update(m, m.loadRecordCmd(ref)())
	assert.Equal(t, []string{"contacts(" + info.ID + ")"}, svc.records)
	assert.False(t, m.recordLoading)
	assert.Equal(t, []string{"emailaddress1", "fullname"}, m.recordResult.Columns)
	assert.Contains(t, m.recordPopup.Title(), "contact")

	// Esc walks back to the referencing record, then closes
	m = press(m, "esc")
	assert.Equal(t, popupRecord, m.popupStack.TopName())
	assert.Equal(t, "Jane Doe", m.recordResult.Rows[0][0])
	m = press(m, "esc")
	assert.True(t, m.popupStack.IsEmpty())
	assert.False(t, m.recordPopup.Visible())
}

func TestRecordLoadFailureStaysOnRecord(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)
	m = press(m, "f5")
	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(lookupBody)})
	m = press(m, "enter", "enter")
	require.True(t, m.recordLoading)

	m, _ = update(m, RecordLoadedMsg{Err: &dataverse.RequestError{Status: 404, Body: "gone"}})
	assert.False(t, m.recordLoading)
	assert.Empty(t, m.recordStack)
	assert.Contains(t, m.errorMsg, "404")
	assert.Equal(t, "Contoso", m.recordResult.Rows[0][1])
}

func TestNonLookupFieldDoesNotNavigate(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)
	m = press(m, "f5")
	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(lookupBody)})
	m = press(m, "enter", "down")

	m, cmd := update(m, key("enter"))
	assert.Nil(t, cmd)
	assert.False(t, m.recordLoading)
	assert.Equal(t, "Not a lookup field", m.statusMsg)
}

func TestRawJSONPopup(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5", "r")
	assert.Equal(t, "No response to show", m.statusMsg)

	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(`{"value":[{"name":"A"}]}`)})
	m = press(m, "r")
	require.Equal(t, popupJSON, m.popupStack.TopName())
	assert.True(t, m.jsonPopup.Visible())

	m = press(m, "esc")
	assert.True(t, m.popupStack.IsEmpty())
	assert.False(t, m.jsonPopup.Visible())
}

func TestExportFlow(t *testing.T) {
	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, nil), svc)

	m = press(m, "f5", "e")
	assert.Equal(t, "Nothing to export", m.statusMsg)
	assert.True(t, m.popupStack.IsEmpty())

	m, _ = update(m, QueryResultMsg{Entity: "account", Body: []byte(`{"value":[{"name":"A"},{"name":"B"}]}`)})
	m = press(m, "e")
	require.Equal(t, popupExport, m.popupStack.TopName())
	assert.Equal(t, ExportChooseFormat, m.exportStep)

	m = press(m, "j")
	require.Equal(t, ExportEnterPath, m.exportStep)
	assert.Equal(t, export.JSON, m.exportFormat)
	assert.True(t, strings.HasSuffix(m.exportInput.Value(), ".json"))

	path := filepath.Join(t.TempDir(), "out.json")
	m.exportInput.SetValue(path)
	m, cmd := update(m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.popupStack.IsEmpty())
	assert.Equal(t, ExportClosed, m.exportStep)

	done := cmd().(ExportCompleteMsg)
	require.NoError(t, done.Err)
	assert.Equal(t, 2, done.Rows)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"B"`)

	m, _ = update(m, done)
	assert.Equal(t, "Exported 2 rows to "+path, m.statusMsg)
}

func TestFetchXMLConsole(t *testing.T) {
	svc := &fakeService{fetchBody: []byte(`{"value":[{"fullname":"Jane"}]}`)}
	m := newTestModel(t, svc, nil)

	m = press(m, "f")
	require.Equal(t, ViewFetchXML, m.view)
	assert.False(t, m.fetchFocus)

	m = press(m, "f5")
	assert.Equal(t, "FetchXML is empty", m.errorMsg)

	fetchXML := `<fetch><entity name="contact"><attribute name="fullname"/></entity></fetch>`
	m.fetchEditor.SetValue(fetchXML)
	m = press(m, "f5")
	require.True(t, m.loading)

	m, _ = update(m, m.runFetchXMLCmd(fetchXML)().(FetchXMLResultMsg))
	assert.Equal(t, []string{fetchXML}, svc.fetches)
	assert.False(t, m.loading)
	require.NotNil(t, m.fetchResult)
	assert.Equal(t, 1, m.fetchResult.RowCount())
	assert.Equal(t, "contact", m.fetchEntity)
	assert.True(t, m.fetchFocus)
	assert.Contains(t, m.View(), "contact (1 rows)")

	m = press(m, "enter")
	assert.Equal(t, popupRecord, m.popupStack.TopName())
	m = press(m, "esc")

	m = press(m, "tab")
	assert.False(t, m.fetchFocus)
	m = press(m, "esc")
	assert.Equal(t, ViewEntities, m.view)
}

func TestFetchXMLGuessedEntitySet(t *testing.T) {
	svc := &fakeService{fetchBody: []byte(`{"value":[]}`)}
	m := newTestModel(t, svc, nil)
	m = press(m, "f")

	fetchXML := `<fetch><entity name="new_widget"/></fetch>`
	m, _ = update(m, m.runFetchXMLCmd(fetchXML)().(FetchXMLResultMsg))
	assert.Equal(t, "Entity set guessed as new_widgets", m.statusMsg)
}

func TestFetchXMLResultFromOtherEnvironmentIgnored(t *testing.T) {
	svc := &fakeService{fetchBody: []byte(`{"value":[{"fullname":"Jane"}]}`)}
	m := newTestModel(t, svc, nil)
	m = press(m, "f")

	fetchXML := `<fetch><entity name="contact"/></fetch>`
	m.fetchEditor.SetValue(fetchXML)
	m = press(m, "f5")
	require.True(t, m.loading)

	msg := m.runFetchXMLCmd(fetchXML)().(FetchXMLResultMsg)
	assert.Equal(t, "dev", msg.Environment)
	msg.Environment = "prod"
	m, cmd := update(m, msg)
	assert.Nil(t, cmd)
	assert.Nil(t, m.fetchResult)
	assert.True(t, m.loading)
}

func TestHistoryRecordedAndDeleted(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := &fakeService{}
	m := openAccountQuery(t, newTestModel(t, svc, store), svc)
	m = press(m, "f5")
	m, save := update(m, QueryResultMsg{
		Entity:  "account",
		Query:   "accounts?$top=50",
		Body:    []byte(`{"value":[{"name":"A"}]}`),
		Started: time.Now(),
	})
	require.NotNil(t, save)
	saved := save().(HistorySavedMsg)
	require.NoError(t, saved.Err)

	m = press(m, "esc", "esc")
	require.Equal(t, ViewEntities, m.view)
	m, load := update(m, key("H"))
	require.Equal(t, ViewHistory, m.view)
	m, _ = update(m, load())
	require.Equal(t, 1, m.historyList.Len())

	entry, ok := m.selectedHistory()
	require.True(t, ok)
	assert.Equal(t, "account", entry.Entity)
	assert.Equal(t, "accounts?$top=50", entry.Query)
	assert.Equal(t, 1, entry.RowCount)
	assert.Equal(t, history.KindGuided, entry.Kind)

	m, del := update(m, key("d"))
	require.NotNil(t, del)
	m, _ = update(m, del())
	assert.Equal(t, 0, m.historyList.Len())
}

func TestHistoryRecordsFailures(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := NewModel(config.DefaultConfig(), "dev", &fakeService{}, nil, store)
	cmd := m.recordHistoryCmd(history.KindFetchXML, "contact", "<fetch/>", time.Now(), nil, errors.New("timeout"))
	require.NoError(t, cmd().(HistorySavedMsg).Err)

	entries, err := store.List(context.Background(), "dev", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Failed())
	assert.Equal(t, "timeout", entries[0].ErrorMessage)
	assert.Equal(t, history.KindFetchXML, entries[0].Kind)
}

func TestHelpPopup(t *testing.T) {
	m := newTestModel(t, &fakeService{}, nil)
	m = press(m, "?")
	require.Equal(t, popupHelp, m.popupStack.TopName())
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(m, "?")
	assert.True(t, m.popupStack.IsEmpty())
}

func TestEnvironmentPicker(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Environments = []config.Environment{
		{Name: "dev", URL: "https://dev.crm.dynamics.com"},
		{Name: "prod", URL: "https://prod.crm.dynamics.com"},
	}
	m := NewModel(cfg, "dev", &fakeService{}, nil, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = press(m, "E")
	require.Equal(t, popupEnvironments, m.popupStack.TopName())
	assert.Equal(t, 0, m.envCursor)
	assert.Contains(t, m.View(), "prod.crm.dynamics.com")

	m = press(m, "down", "enter")
	assert.True(t, m.popupStack.IsEmpty())
	assert.Equal(t, "Switching environments is not available", m.errorMsg)
}

func TestEnvironmentPickerEmpty(t *testing.T) {
	m := newTestModel(t, &fakeService{}, nil)
	m = press(m, "E")
	assert.True(t, m.popupStack.IsEmpty())
	assert.Equal(t, "No environments configured", m.statusMsg)
}

func TestViewShowsStatusBar(t *testing.T) {
	m := newTestModel(t, &fakeService{}, nil)
	view := m.View()
	assert.Contains(t, view, "ENTITIES")
	assert.Contains(t, view, "dev")
	assert.Contains(t, view, "account")

	m.errorMsg = "boom"
	assert.Contains(t, m.View(), "boom")
}

func TestViewBeforeResize(t *testing.T) {
	m := NewModel(config.DefaultConfig(), "", nil, nil, nil)
	assert.Nil(t, m.Init())
	assert.Equal(t, "Loading...", m.View())
}

func TestSolutionsView(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, nil)

	m, _ = update(m, key("S"))
	require.Equal(t, ViewSolutions, m.view)
	require.True(t, m.solutions.Loading())
	m, _ = update(m, solutionlist.LoadCmd(svc, 1)())
	assert.Contains(t, m.View(), "Solutions (2/2)")

	m = press(m, "/")
	require.True(t, m.filtering)
	m = typeText(m, "core")
	m = press(m, "enter")
	require.Len(t, m.solutions.Solutions(), 1)

	m = press(m, "enter")
	open, ok := m.solutions.Opened()
	require.True(t, ok)
	assert.Equal(t, "s2", open.SolutionID)
	m, _ = update(m, solutionlist.LoadComponentsCmd(svc, 1, "s2")())
	assert.Contains(t, m.View(), "Components (1)")

	m = press(m, "esc")
	_, ok = m.solutions.Opened()
	assert.False(t, ok)
	m = press(m, "esc")
	assert.Empty(t, m.solutions.Filter())
	m = press(m, "esc")
	assert.Equal(t, ViewEntities, m.view)

	m, _ = update(m, key("S"))
	assert.True(t, m.solutions.Loaded())
	assert.False(t, m.solutions.Loading(), "the list is fetched once")
}

func TestUsersView(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, nil)

	m, _ = update(m, key("U"))
	require.Equal(t, ViewUsers, m.view)
	m, _ = update(m, userlist.LoadCmd(svc, 1, false)())
	require.Len(t, m.users.Users(), 1)

	m = press(m, "space")
	require.True(t, m.users.IncludeDisabled())
	m, _ = update(m, userlist.LoadCmd(svc, 2, true)())
	assert.Len(t, m.users.Users(), 2)

	m = press(m, "enter")
	user, ok := m.users.Opened()
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	m, _ = update(m, userlist.LoadDetailCmd(svc, 2, "u1")())
	assert.Contains(t, m.View(), "Direct roles (1)")

	m = press(m, "tab", "tab")
	assert.Equal(t, userlist.TabAllRoles, m.users.ActiveTab())
	assert.Contains(t, m.View(), "Team: Sales")

	m = press(m, "esc")
	_, ok = m.users.Opened()
	assert.False(t, ok)
	assert.Equal(t, ViewUsers, m.view)
}

func TestEnvironmentSwitchResetsDirectories(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, nil)

	m, _ = update(m, key("S"))
	stale := solutionlist.LoadCmd(svc, 1)()
	m, _ = update(m, EnvironmentSwitchedMsg{Environment: "dev", Service: svc})
	m, _ = update(m, stale)
	assert.False(t, m.solutions.Loaded())
	assert.Empty(t, m.solutions.Solutions())
}
