package dataverse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezdv/internal/query"
)

func TestExecuteSendsODataHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/accounts", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "4.0", r.Header.Get("OData-MaxVersion"))
		assert.Equal(t, "4.0", r.Header.Get("OData-Version"))
		assert.Equal(t, `odata.include-annotations="*"`, r.Header.Get("Prefer"))
		assert.Equal(t, "name,revenue", r.URL.Query().Get("$select"))
		assert.Equal(t, "name eq 'x'", r.URL.Query().Get("$filter"))

		w.Write([]byte(`{"value": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", StaticTokenSource("test-token"))
	body, err := client.Execute(context.Background(), "accounts?$select=name,revenue&$filter=name eq 'x'")

	require.NoError(t, err)
	assert.JSONEq(t, `{"value": []}`, string(body))
}

func TestNewClientHasNoTimeout(t *testing.T) {
	client := NewClient("https://org.crm.dynamics.com/", StaticTokenSource("t"))
	assert.Zero(t, client.HTTPClient.Timeout)
	assert.Equal(t, "https://org.crm.dynamics.com/api/data/v9.2", client.APIURL())
}

func TestExecutePreservesSpecialCharactersInFilter(t *testing.T) {
	for _, value := range []string{"A&B", "C#1", "50%", "a+b"} {
		t.Run(value, func(t *testing.T) {
			var gotFilter, gotTop string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotFilter = r.URL.Query().Get("$filter")
				gotTop = r.URL.Query().Get("$top")
				w.Write([]byte(`{"value": []}`))
			}))
			defer server.Close()

			def := query.QueryDefinition{EntitySetName: "accounts"}
			def.SetFilters([]query.FilterCondition{{Attribute: "name", Operator: query.Contains, Value: value}})
			def.SetTop(5)

			client := NewClient(server.URL, StaticTokenSource("t"))
			_, err := client.Execute(context.Background(), def.BuildQueryString())
			require.NoError(t, err)
			assert.Equal(t, "contains(name, '"+value+"')", gotFilter)
			assert.Equal(t, "5", gotTop)
		})
	}
}

func TestExecuteFollowsAbsoluteNextLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/elsewhere/page2", r.URL.Path)
		assert.Equal(t, "$skiptoken=%3Ccookie%20page%3D%222%22%3E", r.URL.RawQuery)
		w.Write([]byte(`{"value": []}`))
	}))
	defer server.Close()

	client := NewClient("https://unused.example.com", StaticTokenSource("t"))
	_, err := client.Execute(context.Background(), server.URL+"/elsewhere/page2?$skiptoken=%3Ccookie%20page%3D%222%22%3E")
	assert.NoError(t, err)
}

func TestExecuteNon2xxIsRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"Resource not found"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("t"))
	_, err := client.Execute(context.Background(), "nosuchset")

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 404, reqErr.Status)
	assert.Contains(t, reqErr.Body, "Resource not found")
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, "Resource not found", reqErr.Message())
}

func TestRequestErrorMessageOnPlainBody(t *testing.T) {
	err := &RequestError{Status: 502, Body: "Bad Gateway"}
	assert.Equal(t, "", err.Message())
}

func TestExecuteTokenFailureIsTransportError(t *testing.T) {
	client := NewClient("https://org.example.com", StaticTokenSource(""))
	_, err := client.Execute(context.Background(), "accounts")

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestExecuteUnreachableIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, StaticTokenSource("t"))
	_, err := client.Execute(context.Background(), "accounts")

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.False(t, IsNotFound(err))
}

func TestEntitiesAndAttributes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/data/v9.2/EntityDefinitions":
			assert.Contains(t, r.URL.Query().Get("$select"), "EntitySetName")
			w.Write([]byte(`{"value": [
				{"LogicalName": "account", "EntitySetName": "accounts",
				 "DisplayName": {"UserLocalizedLabel": {"Label": "Account", "LanguageCode": 1033}}},
				{"LogicalName": "contact", "EntitySetName": "contacts"}
			]}`))
		case "/api/data/v9.2/EntityDefinitions(LogicalName='account')/Attributes":
			w.Write([]byte(`{"value": [
				{"LogicalName": "name", "AttributeTypeName": {"Value": "StringType"}, "RequiredLevel": {"Value": "ApplicationRequired"}},
				{"LogicalName": "revenue", "AttributeType": "Money"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("t"))
	entities, err := client.Entities(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "Account", entities[0].Label())
	assert.Equal(t, "contact", entities[1].Label())

	attrs, err := client.Attributes(context.Background(), "account")
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, "StringType", attrs[0].TypeName())
	assert.True(t, attrs[0].Required())
	assert.Equal(t, "Money", attrs[1].TypeName())
	assert.False(t, attrs[1].Required())
}

func TestRelationshipsTagKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/EntityDefinitions(LogicalName='account')/ManyToManyRelationships", r.URL.Path)
		w.Write([]byte(`{"value": [{"SchemaName": "accountleads_association", "Entity1LogicalName": "account", "Entity2LogicalName": "lead"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("t"))
	rels, err := client.Relationships(context.Background(), "account", ManyToMany)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, ManyToMany, rels[0].Kind)
	assert.Equal(t, "lead", rels[0].RelatedEntity("account"))

	_, err = client.Relationships(context.Background(), "account", RelationshipKind("Bogus"))
	assert.Error(t, err)
}

func TestAttributeCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/accounts/$count", r.URL.Path)
		assert.Equal(t, "name ne null", r.URL.Query().Get("$filter"))
		w.Write([]byte("\ufeff42"))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("t"))
	n, err := client.AttributeCount(context.Background(), "accounts", "name")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestRecord(t *testing.T) {
	const id = "5f3c2a6e-1b2d-4c3e-9f10-a1b2c3d4e5f6"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v9.2/systemusers("+id+")", r.URL.Path)
		w.Write([]byte(`{"fullname": "Ada"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticTokenSource("t"))
	body, err := client.Record(context.Background(), "systemusers", id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fullname": "Ada"}`, string(body))

	_, err = client.Record(context.Background(), "systemusers", "not-a-guid")
	assert.ErrorIs(t, err, ErrInvalidRecordID)
}
