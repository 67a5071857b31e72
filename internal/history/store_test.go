package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	queries := []string{"accounts?$top=5", "contacts?$select=fullname", "accounts?$filter=name eq 'x'"}
	for i, q := range queries {
		e := &HistoryEntry{
			Environment: "dev",
			Entity:      "account",
			Query:       q,
			ExecutedAt:  base.Add(time.Duration(i) * time.Minute),
			DurationMs:  12,
			RowCount:    i,
			Status:      StatusSuccess,
		}
		require.NoError(t, s.Add(ctx, e))
		assert.NotZero(t, e.ID)
		assert.Equal(t, KindGuided, e.Kind)
	}
	require.NoError(t, s.Add(ctx, &HistoryEntry{
		Environment: "prod", Query: "leads", ExecutedAt: base, Status: StatusError, ErrorMessage: "boom",
	}))

	entries, err := s.List(ctx, "dev", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, queries[2], entries[0].Query, "newest first")
	assert.Equal(t, queries[0], entries[2].Query)

	page, err := s.List(ctx, "dev", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, queries[1], page[0].Query)

	n, err := s.Count(ctx, "prod")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	prod, err := s.List(ctx, "prod", 10, 0)
	require.NoError(t, err)
	require.Len(t, prod, 1)
	assert.True(t, prod[0].Failed())
	assert.Equal(t, "boom", prod[0].ErrorMessage)
}

func TestSearchMatchesQueryAndEntity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.Add(ctx, &HistoryEntry{Environment: "dev", Entity: "opportunity", Kind: KindFetchXML,
		Query: `<fetch><entity name="opportunity"/></fetch>`, ExecutedAt: now, Status: StatusSuccess}))
	require.NoError(t, s.Add(ctx, &HistoryEntry{Environment: "dev", Entity: "account",
		Query: "accounts", ExecutedAt: now, Status: StatusSuccess}))

	got, err := s.Search(ctx, "dev", "opportunity", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindFetchXML, got[0].Kind)

	got, err = s.Search(ctx, "dev", "account", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetByIDAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := &HistoryEntry{Environment: "dev", Query: "accounts", ExecutedAt: time.Now().UTC(), Status: StatusSuccess, Preview: "A\tB"}
	require.NoError(t, s.Add(ctx, e))

	got, err := s.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A\tB", got.Preview)

	require.NoError(t, s.Delete(ctx, e.ID))
	got, err = s.GetByID(ctx, e.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueryPreview(t *testing.T) {
	e := HistoryEntry{Query: "accounts?$select=name"}
	assert.Equal(t, "accounts?$select=name", e.QueryPreview(50))
	assert.Equal(t, "accoun...", e.QueryPreview(9))
}
