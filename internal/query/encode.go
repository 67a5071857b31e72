package query

import (
	"net/url"
	"strings"
)

// EncodeOptions percent-encodes the system query options of an unencoded
// query string such as "$select=a,b&$filter=contains(name, 'A&B')".
// Options are split at '&' outside single-quoted literals, so '&', '#',
// '%' and '+' typed into a filter value reach the server unchanged.
func EncodeOptions(raw string) string {
	if raw == "" {
		return ""
	}
	opts := splitOptions(raw)
	for i, opt := range opts {
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			opts[i] = escapeComponent(opt)
			continue
		}
		opts[i] = escapeComponent(key) + "=" + escapeComponent(value)
	}
	return strings.Join(opts, "&")
}

// splitOptions splits at '&' outside quotes. Doubled quotes inside a
// literal toggle twice and leave the state unchanged.
func splitOptions(raw string) []string {
	var opts []string
	inQuote := false
	start := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\'':
			inQuote = !inQuote
		case '&':
			if !inQuote {
				opts = append(opts, raw[start:i])
				start = i + 1
			}
		}
	}
	return append(opts, raw[start:])
}

// escapeComponent escapes s for a query component. Spaces become %20 rather
// than '+' and the '$' of option names is kept readable.
func escapeComponent(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	return strings.ReplaceAll(e, "%24", "$")
}
