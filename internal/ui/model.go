// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/export"
	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/history"
	"github.com/nhath/ezdv/internal/query"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	"github.com/nhath/ezdv/internal/ui/components/historylist"
	"github.com/nhath/ezdv/internal/ui/components/popup"
	"github.com/nhath/ezdv/internal/ui/components/solutionlist"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
	"github.com/nhath/ezdv/internal/ui/components/userlist"
	"github.com/nhath/ezdv/internal/ui/highlight"
)

// Model is the root Bubble Tea model
type Model struct {
	// Core state
	view          View
	width, height int
	config        *config.Config
	keys          config.KeyMap
	svc           Service
	connect       Connector
	environment   string
	historyStore  *history.Store
	popupStack    *PopupStack

	// Entity list
	catalog        *dataverse.Catalog
	entities       []dataverse.EntityMetadata // catalog filtered by search
	entityCursor   int
	loadingCatalog bool
	searching      bool
	searchInput    textinput.Model

	// Entity detail and guided query
	detail       entitydetail.Model
	filtering    bool
	filterInput  textinput.Model
	guided       *guided.State
	optionRow    int // 0 order by, 1 top
	editingTop   bool
	topInput     textinput.Model
	resultsTable table.Model

	// FetchXML console
	fetchEditor textarea.Model
	fetchResult *query.QueryResult
	fetchEntity string
	fetchTable  table.Model
	fetchFocus  bool // results focused instead of the editor

	// Solutions and users; the filter box is shared with entity detail
	solutions solutionlist.Model
	users     userlist.Model

	// History
	historyList      historylist.Model
	historyEntries   []history.HistoryEntry
	historySearching bool
	historyInput     textinput.Model

	// Record detail popup
	recordPopup   popup.Model
	recordResult  query.QueryResult
	recordCursor  int
	recordStack   []recordFrame
	recordLoading bool

	// Other popups
	jsonPopup    popup.Model
	helpPopup    popup.Model
	exportStep   ExportStep
	exportFormat export.Format
	exportInput  textinput.Model
	envPicker    bool
	envCursor    int

	// Status
	spinner   spinner.Model
	loading   bool
	statusMsg string
	errorMsg  string
}

// NewModel creates the root model for svc. store may be nil to disable
// history; connect may be nil to disable environment switching.
func NewModel(cfg *config.Config, environment string, svc Service, connect Connector, store *history.Store) Model {
	InitStyles(cfg.Theme)
	eztable.Init(cfg.Theme)

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "Search entities..."
	si.CharLimit = 100
	si.Width = 30

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "Filter attributes..."
	fi.CharLimit = 100
	fi.Width = 30

	ti := textinput.New()
	ti.Prompt = "Top: "
	ti.Placeholder = "(all)"
	ti.CharLimit = 9
	ti.Width = 12

	hi := textinput.New()
	hi.Prompt = "/ "
	hi.Placeholder = "Search history..."
	hi.CharLimit = 100
	hi.Width = 30

	ei := textinput.New()
	ei.Prompt = "Export to: "
	ei.CharLimit = 256
	ei.Width = 40

	fe := textarea.New()
	fe.Placeholder = `<fetch top="10"><entity name="account"><attribute name="name" /></entity></fetch>`
	fe.CharLimit = 20000
	fe.ShowLineNumbers = true
	fe.SetHeight(8)
	fe.SetWidth(80)
	fe.FocusedStyle.CursorLine = lipgloss.NewStyle()
	fe.BlurredStyle.CursorLine = lipgloss.NewStyle()
	fe.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.TextFaint))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Accent))

	return Model{
		view:           ViewEntities,
		config:         cfg,
		keys:           cfg.EffectiveKeys(),
		svc:            svc,
		connect:        connect,
		environment:    environment,
		historyStore:   store,
		popupStack:     NewPopupStack(),
		catalog:        dataverse.NewCatalog(nil),
		loadingCatalog: svc != nil,
		searchInput:    si,
		detail:         entitydetail.New(detailStyles()),
		filterInput:    fi,
		guided:         guided.New(guided.Entity{}, nil),
		topInput:       ti,
		resultsTable:   eztable.New(nil),
		fetchEditor:    fe,
		fetchTable:     eztable.New(nil),
		solutions:      solutionlist.New(solutionStyles()),
		users:          userlist.New(userStyles()),
		historyList:    historylist.New().SetStyles(historyStyles()).SetHighlightFunc(highlight.Query),
		historyInput:   hi,
		recordPopup:    popup.New().SetStyles(popupStyles()),
		jsonPopup:      popup.New().SetStyles(popupStyles()),
		helpPopup:      popup.New().SetStyles(popupStyles()),
		exportInput:    ei,
		spinner:        sp,
	}
}

// Init starts loading the entity catalog
func (m Model) Init() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadCatalogCmd())
}
