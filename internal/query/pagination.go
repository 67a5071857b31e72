package query

// Extend appends the next page to current. Columns are assumed identical
// across pages. The new page's lookups are re-keyed past the existing rows,
// and NextLink and RawJSON are replaced by the new page's values.
//
// If the next page is malformed, current's data is kept, NextLink is
// cleared, and Error is set.
func Extend(current QueryResult, nextPage []byte) QueryResult {
	page := Parse(nextPage)
	if page.Failed() {
		current.Error = page.Error
		current.NextLink = ""
		return current
	}

	out := current
	out.Rows = make([][]string, 0, len(current.Rows)+len(page.Rows))
	out.Rows = append(out.Rows, current.Rows...)
	offset := len(out.Rows)
	out.Rows = append(out.Rows, page.Rows...)

	if len(current.Columns) == 0 {
		out.Columns = page.Columns
	}

	if len(current.Lookups) > 0 || len(page.Lookups) > 0 {
		out.Lookups = make(map[Cell]LookupInfo, len(current.Lookups)+len(page.Lookups))
		for k, v := range current.Lookups {
			out.Lookups[k] = v
		}
		for k, v := range page.Lookups {
			out.Lookups[Cell{Row: k.Row + offset, Col: k.Col}] = v
		}
	}

	if page.Count != nil {
		out.Count = page.Count
	}
	out.NextLink = page.NextLink
	out.RawJSON = string(nextPage)
	out.Error = ""
	return out
}
