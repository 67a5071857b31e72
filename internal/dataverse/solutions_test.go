package dataverse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/solutions", r.URL.Path)
		assert.Equal(t, "friendlyname", r.URL.Query().Get("$orderby"))
		assert.Contains(t, r.URL.Query().Get("$select"), "uniquename")
		w.Write([]byte(`{"value": [
			{"solutionid": "s1", "uniquename": "Default", "friendlyname": "Default Solution", "version": "1.0", "ismanaged": false},
			{"solutionid": "s2", "uniquename": "contoso_core", "ismanaged": true}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("t"))
	solutions, err := client.Solutions(context.Background())
	require.NoError(t, err)
	require.Len(t, solutions, 2)
	assert.Equal(t, "Default Solution", solutions[0].Label())
	assert.False(t, solutions[0].Managed())
	assert.Equal(t, "contoso_core", solutions[1].Label())
	assert.True(t, solutions[1].Managed())
}

func TestSolutionComponents(t *testing.T) {
	const id = "5f3c2a6e-1b2d-4c3e-9f10-a1b2c3d4e5f6"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/solutioncomponents", r.URL.Path)
		assert.Equal(t, "_solutionid_value eq "+id, r.URL.Query().Get("$filter"))
		w.Write([]byte(`{"value": [
			{"solutioncomponentid": "c1", "componenttype": 1, "objectid": "o1"},
			{"solutioncomponentid": "c2", "componenttype": 4242}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("t"))
	comps, err := client.SolutionComponents(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, "Entity", comps[0].TypeName())
	assert.Equal(t, "Unknown (4242)", comps[1].TypeName())

	_, err = client.SolutionComponents(context.Background(), "x eq x or true")
	assert.ErrorIs(t, err, ErrInvalidRecordID)
}

func TestComponentTypeName(t *testing.T) {
	assert.Equal(t, "Plugin Step", ComponentTypeName(92))
	assert.Equal(t, "View", ComponentTypeName(26))
	assert.Equal(t, "Unknown (0)", ComponentTypeName(0))
}
