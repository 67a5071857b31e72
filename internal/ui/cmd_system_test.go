package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/query"
	eztable "github.com/nhath/ezdv/internal/ui/components/table"
)

func TestPageResultWithoutPager(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pager = ""
	m := NewModel(cfg, "dev", &fakeService{}, nil, nil)

	m, cmd := m.pageResult(&query.QueryResult{Columns: []string{"name"}, Rows: [][]string{{"A"}}})
	assert.Nil(t, cmd)
	assert.Equal(t, "No pager configured", m.statusMsg)
}

func TestOpenPagerSkipsEmptyResult(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pager = "less -S"
	m := NewModel(cfg, "dev", &fakeService{}, nil, nil)

	assert.Nil(t, m.openPager(nil))
	assert.Nil(t, m.openPager(&query.QueryResult{Columns: []string{"name"}}))
}

func TestCopyRowCmdWithoutResult(t *testing.T) {
	m := NewModel(config.DefaultConfig(), "dev", &fakeService{}, nil, nil)
	res := &query.QueryResult{Columns: []string{"name"}}
	assert.Nil(t, m.copyRowCmd(nil, m.resultsTable))
	assert.Nil(t, m.copyRowCmd(res, eztable.FromQueryResult(res, 10)))
}
