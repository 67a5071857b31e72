// internal/ui/model_helpers.go
// Small helper functions used across the UI layer
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezdv/internal/query"
)

// matchKey returns true if the key message matches any of the provided key strings
func matchKey(msg tea.KeyMsg, keys []string) bool {
	keyStr := msg.String()
	for _, k := range keys {
		if k == keyStr {
			return true
		}
	}
	return false
}

// limitString truncates s to maxLen by replacing the middle with "..."
func limitString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen || maxLen < 5 {
		return s
	}
	half := (maxLen - 3) / 2
	return string(r[:half]) + "..." + string(r[len(r)-half:])
}

// firstKey returns the first binding or fallback
func firstKey(bindings []string, fallback string) string {
	if len(bindings) > 0 {
		return bindings[0]
	}
	return fallback
}

// previewRows renders the first n rows of res, tab separated, for history.
func previewRows(res query.QueryResult, n int) string {
	if len(res.Rows) == 0 || n <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.Join(res.Columns, "\t"))
	for i := 0; i < n && i < len(res.Rows); i++ {
		b.WriteString("\n")
		b.WriteString(strings.Join(res.Rows[i], "\t"))
	}
	if len(res.Rows) > n {
		b.WriteString("\n...")
	}
	return b.String()
}
