package query

import (
	"errors"
	"net/url"
	"strings"
)

// ErrFetchEntityNotFound is returned when no entity name attribute can be
// located in a FetchXML document.
var ErrFetchEntityNotFound = errors.New("could not find entity name in FetchXML")

// ExtractFetchEntityName locates `entity name="..."` (or the single-quoted
// form) by substring search. It is not an XML parser.
// The earliest match wins, so the root entity is found before any
// link-entity elements.
func ExtractFetchEntityName(fetchXML string) (string, error) {
	const marker = "entity name="

	best, bestQuote := -1, byte(0)
	for _, quote := range []byte{'"', '\''} {
		start := strings.Index(fetchXML, marker+string(quote))
		if start >= 0 && (best < 0 || start < best) {
			best, bestQuote = start, quote
		}
	}
	if best < 0 {
		return "", ErrFetchEntityNotFound
	}

	rest := fetchXML[best+len(marker)+1:]
	end := strings.IndexByte(rest, bestQuote)
	if end <= 0 {
		return "", ErrFetchEntityNotFound
	}
	return rest[:end], nil
}

// FetchXMLQueryString builds the query string that submits fetchXML verbatim
// against entitySet.
func FetchXMLQueryString(entitySet, fetchXML string) string {
	return entitySet + "?fetchXml=" + url.QueryEscape(fetchXML)
}
