package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFetchEntityName(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		want    string
		wantErr bool
	}{
		{
			name: "double quotes",
			xml:  `<fetch top="5"><entity name="account"><attribute name="name"/></entity></fetch>`,
			want: "account",
		},
		{
			name: "single quotes",
			xml:  `<fetch><entity name='contact'/></fetch>`,
			want: "contact",
		},
		{
			name: "root entity before link-entity",
			xml:  `<fetch><entity name='account'><link-entity name="contact" from="parentcustomerid" to="accountid"/></entity></fetch>`,
			want: "account",
		},
		{
			name:    "missing",
			xml:     `<fetch><attribute name="x"/></fetch>`,
			wantErr: true,
		},
		{
			name:    "empty name",
			xml:     `<fetch><entity name=""/></fetch>`,
			wantErr: true,
		},
		{
			name:    "unterminated",
			xml:     `<fetch><entity name="account`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFetchEntityName(tt.xml)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFetchEntityNotFound)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchXMLQueryString(t *testing.T) {
	got := FetchXMLQueryString("accounts", `<fetch><entity name="account"/></fetch>`)
	assert.Equal(t, "accounts?fetchXml=%3Cfetch%3E%3Centity+name%3D%22account%22%2F%3E%3C%2Ffetch%3E", got)
}
