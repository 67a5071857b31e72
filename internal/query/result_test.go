package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyValue(t *testing.T) {
	res := Parse([]byte(`{"value": []}`))
	assert.False(t, res.Failed())
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)
	assert.Equal(t, "", res.NextLink)
}

func TestParseEmptyValueKeepsNextLink(t *testing.T) {
	res := Parse([]byte(`{"value": [], "@odata.nextLink": "https://x/next"}`))
	assert.False(t, res.Failed())
	assert.Equal(t, "https://x/next", res.NextLink)
}

func TestParseMissingValue(t *testing.T) {
	res := Parse([]byte(`{"error": {"message": "nope"}}`))
	assert.True(t, res.Failed())
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)
}

func TestParseInvalidJSON(t *testing.T) {
	res := Parse([]byte(`{"value": [`))
	assert.True(t, res.Failed())
	assert.Empty(t, res.Rows)

	res = Parse([]byte(`[1, 2]`))
	assert.True(t, res.Failed())
}

func TestParseFormattedValueWins(t *testing.T) {
	res := Parse([]byte(`{"value": [
		{"status": 1, "status@OData.Community.Display.V1.FormattedValue": "Active"}
	]}`))
	require.False(t, res.Failed())
	assert.Equal(t, []string{"status"}, res.Columns)
	assert.Equal(t, [][]string{{"Active"}}, res.Rows)
}

func TestParseColumnsFromFirstRecordSorted(t *testing.T) {
	res := Parse([]byte(`{"value": [
		{"name": "A", "@odata.etag": "W/1", "accountid": "1"},
		{"name": "B", "accountid": "2", "extra": "ignored"}
	]}`))
	assert.Equal(t, []string{"accountid", "name"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "A"}, {"2", "B"}}, res.Rows)
}

func TestParseMissingColumnInLaterRecord(t *testing.T) {
	res := Parse([]byte(`{"value": [{"a": 1, "b": 2}, {"a": 3}]}`))
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "-"}}, res.Rows)
	for _, row := range res.Rows {
		assert.Len(t, row, len(res.Columns))
	}
}

func TestParseValueRendering(t *testing.T) {
	res := Parse([]byte(`{"value": [{
		"n": null, "t": true, "f": false, "i": 42, "d": 3.50,
		"s": "text", "arr": [1, 2, 3], "obj": {"k": "v"}
	}]}`))
	row := res.Rows[0]
	get := func(col string) string { return row[res.ColumnIndex(col)] }

	assert.Equal(t, "-", get("n"))
	assert.Equal(t, "true", get("t"))
	assert.Equal(t, "false", get("f"))
	assert.Equal(t, "42", get("i"))
	assert.Equal(t, "3.50", get("d"))
	assert.Equal(t, "text", get("s"))
	assert.Equal(t, "[3 items]", get("arr"))
	assert.Equal(t, "{...}", get("obj"))
}

func TestParseLookupValueColumn(t *testing.T) {
	res := Parse([]byte(`{"value": [{
		"name": "Contoso",
		"_ownerid_value": "2b1e6a50-1f7c-4c1e-9f0e-000000000001",
		"_ownerid_value@Microsoft.Dynamics.CRM.lookuplogicalname": "systemuser",
		"_ownerid_value@OData.Community.Display.V1.FormattedValue": "Jane Doe"
	}]}`))
	require.False(t, res.Failed())

	col := res.ColumnIndex("_ownerid_value")
	require.GreaterOrEqual(t, col, 0)

	info, ok := res.Lookup(0, col)
	require.True(t, ok)
	assert.Equal(t, "systemuser", info.LogicalName)
	assert.Equal(t, "2b1e6a50-1f7c-4c1e-9f0e-000000000001", info.ID)
	assert.Equal(t, "Jane Doe", info.DisplayName)
	assert.Equal(t, "Jane Doe", res.Rows[0][col])

	_, ok = res.Lookup(0, res.ColumnIndex("name"))
	assert.False(t, ok)
}

func TestParseLookupNeedsAnnotation(t *testing.T) {
	res := Parse([]byte(`{"value": [{"_parentid_value": "abc"}]}`))
	assert.Empty(t, res.Lookups)
}

func TestParseNullLookupIsNotStored(t *testing.T) {
	res := Parse([]byte(`{"value": [{
		"_ownerid_value": null,
		"_ownerid_value@Microsoft.Dynamics.CRM.lookuplogicalname": "systemuser"
	}]}`))
	assert.Empty(t, res.Lookups)
	assert.Equal(t, "-", res.Rows[0][0])
}

func TestParseCountAndNextLink(t *testing.T) {
	res := Parse([]byte(`{"@odata.count": 250, "@odata.nextLink": "accounts?$skiptoken=x", "value": [{"a": 1}]}`))
	require.NotNil(t, res.Count)
	assert.Equal(t, 250, *res.Count)
	assert.Equal(t, "accounts?$skiptoken=x", res.NextLink)
	assert.True(t, res.HasMore())
}

func TestParseRecord(t *testing.T) {
	res := ParseRecord([]byte(`{"@odata.context": "x", "fullname": "Jane", "systemuserid": "1"}`))
	require.False(t, res.Failed())
	assert.Equal(t, []string{"fullname", "systemuserid"}, res.Columns)
	assert.Equal(t, [][]string{{"Jane", "1"}}, res.Rows)

	assert.True(t, ParseRecord([]byte(`[]`)).Failed())
}

func TestLookupColumnName(t *testing.T) {
	assert.True(t, IsLookupColumnName("_ownerid_value"))
	assert.False(t, IsLookupColumnName("ownerid"))
	assert.False(t, IsLookupColumnName("__value"))
	assert.Equal(t, "ownerid", LookupBaseName("_ownerid_value"))
	assert.Equal(t, "name", LookupBaseName("name"))
}
