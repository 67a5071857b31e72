// Package highlight colors OData query strings, JSON bodies and FetchXML
// for terminal display.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// OData query keywords and filter functions
var odataKeywords = map[string]bool{
	"and": true, "or": true, "not": true,
	"eq": true, "ne": true, "gt": true, "ge": true, "lt": true, "le": true,
	"asc": true, "desc": true, "null": true, "true": true, "false": true,
	"contains": true, "startswith": true, "endswith": true,
}

// ANSI foreground color codes (no background, no reset issues)
const (
	fgCyan   = "\x1b[38;5;110m" // keywords
	fgPurple = "\x1b[38;5;183m" // numbers
	fgGreen  = "\x1b[38;5;150m" // string literals
	fgOrange = "\x1b[38;5;209m" // $options
	fgGray   = "\x1b[38;5;253m" // identifiers
	fgReset  = "\x1b[39m"       // reset foreground only
)

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '.'
}

// Query highlights an OData query string such as
// accounts?$select=name&$filter=name eq 'x'.
func Query(qs string) string {
	var result strings.Builder
	i := 0

	for i < len(qs) {
		c := qs[i]

		switch {
		// $select, $filter, ...
		case c == '$':
			j := i + 1
			for j < len(qs) && isWordByte(qs[j]) {
				j++
			}
			result.WriteString(fgOrange + qs[i:j] + fgReset)
			i = j

		// String literals; '' is an escaped quote inside the literal
		case c == '\'':
			j := i + 1
			for j < len(qs) {
				if qs[j] == '\'' {
					if j+1 < len(qs) && qs[j+1] == '\'' {
						j += 2
						continue
					}
					j++
					break
				}
				j++
			}
			result.WriteString(fgGreen + qs[i:j] + fgReset)
			i = j

		case c >= '0' && c <= '9':
			j := i
			for j < len(qs) && ((qs[j] >= '0' && qs[j] <= '9') || qs[j] == '.') {
				j++
			}
			result.WriteString(fgPurple + qs[i:j] + fgReset)
			i = j

		case isWordByte(c):
			j := i
			for j < len(qs) && isWordByte(qs[j]) {
				j++
			}
			word := qs[i:j]
			if odataKeywords[strings.ToLower(word)] {
				result.WriteString(fgCyan + word + fgReset)
			} else {
				result.WriteString(fgGray + word + fgReset)
			}
			i = j

		default:
			result.WriteByte(c)
			i++
		}
	}

	return result.String()
}

// Code highlights source with the chroma lexer for language and the named
// chroma style. On any failure the source is returned unchanged.
func Code(source, language, style string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return source
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var b strings.Builder
	if err := formatter.Format(&b, styles.Get(style), iterator); err != nil {
		return source
	}
	return b.String()
}

// JSON highlights a JSON document.
func JSON(source, style string) string {
	return Code(source, "json", style)
}

// XML highlights a FetchXML document.
func XML(source, style string) string {
	return Code(source, "xml", style)
}

// Strip removes ANSI escape sequences.
func Strip(text string) string {
	var result strings.Builder
	i := 0
	for i < len(text) {
		if text[i] == '\x1b' && i+1 < len(text) && text[i+1] == '[' {
			j := i + 2
			for j < len(text) && !((text[j] >= 'A' && text[j] <= 'Z') || (text[j] >= 'a' && text[j] <= 'z')) {
				j++
			}
			if j < len(text) {
				j++
			}
			i = j
			continue
		}
		result.WriteByte(text[i])
		i++
	}
	return result.String()
}
