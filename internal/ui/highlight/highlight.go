// Package highlight renders SQL with syntax colors. Static text (history
// and share previews) goes through chroma; the live editor view gets a
// hand-rolled pass that leaves the textarea's own ANSI sequences intact,
// since chroma would mangle the cursor styling.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true, "SET": true,
	"DELETE": true, "CREATE": true, "TABLE": true, "DROP": true, "ALTER": true,
	"JOIN": true, "LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true,
	"ON": true, "AS": true, "ORDER": true, "BY": true, "GROUP": true,
	"HAVING": true, "LIMIT": true, "OFFSET": true, "DISTINCT": true,
	"NULL": true, "NOT": true, "IN": true, "LIKE": true, "BETWEEN": true,
	"IS": true, "TRUE": true, "FALSE": true, "ASC": true, "DESC": true,
	"UNION": true, "ALL": true, "EXISTS": true, "CASE": true, "WHEN": true,
	"THEN": true, "ELSE": true, "END": true, "COUNT": true, "SUM": true,
	"AVG": true, "MIN": true, "MAX": true,
}

// ANSI foreground color codes (foreground only, so backgrounds survive)
const (
	fgCyan   = "\x1b[38;5;110m" // keywords
	fgPurple = "\x1b[38;5;183m" // numbers
	fgGreen  = "\x1b[38;5;150m" // strings
	fgOrange = "\x1b[38;5;209m" // wildcards
	fgGray   = "\x1b[38;5;253m" // identifiers
	fgFaint  = "\x1b[38;5;243m" // comments
	fgReset  = "\x1b[39m"
)

// SQL highlights a plain SQL string through chroma's terminal formatter.
// On any formatter error the input is returned unchanged.
func SQL(sql string) string {
	lexer := lexers.Get("sql")
	if lexer == nil {
		return sql
	}
	style := styles.Get("nord")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return sql
	}

	iterator, err := lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return sql
	}
	// chroma appends a trailing newline for some inputs
	return strings.TrimSuffix(b.String(), "\n")
}

// SQLPreserveANSI highlights SQL while passing through any ANSI escape
// sequences already in the text. Used on textarea views, which embed
// cursor styling.
func SQLPreserveANSI(text string) string {
	var result strings.Builder
	i := 0

	for i < len(text) {
		c := text[i]

		// Existing escape sequences pass through untouched.
		if c == '\x1b' && i+1 < len(text) && text[i+1] == '[' {
			j := i + 2
			for j < len(text) && !isAlpha(text[j]) {
				j++
			}
			if j < len(text) {
				j++
			}
			result.WriteString(text[i:j])
			i = j
			continue
		}

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			result.WriteByte(c)
			i++

		case c == '*':
			result.WriteString(fgOrange + "*" + fgReset)
			i++

		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			// Line comment runs to end of line.
			j := i
			for j < len(text) && text[j] != '\n' && text[j] != '\x1b' {
				j++
			}
			result.WriteString(fgFaint)
			result.WriteString(text[i:j])
			result.WriteString(fgReset)
			i = j

		case c == '\'' || c == '"':
			quote := c
			result.WriteString(fgGreen)
			result.WriteByte(c)
			i++
			for i < len(text) && text[i] != quote {
				if text[i] == '\x1b' {
					j := i + 2
					for j < len(text) && !isAlpha(text[j]) {
						j++
					}
					if j < len(text) {
						j++
					}
					result.WriteString(text[i:j])
					i = j
					continue
				}
				result.WriteByte(text[i])
				i++
			}
			if i < len(text) {
				result.WriteByte(text[i])
				i++
			}
			result.WriteString(fgReset)

		case c >= '0' && c <= '9':
			result.WriteString(fgPurple)
			for i < len(text) && ((text[i] >= '0' && text[i] <= '9') || text[i] == '.') {
				result.WriteByte(text[i])
				i++
			}
			result.WriteString(fgReset)

		case isAlpha(c) || c == '_':
			j := i
			for j < len(text) && (isAlpha(text[j]) || (text[j] >= '0' && text[j] <= '9') || text[j] == '_') {
				j++
			}
			word := text[i:j]
			if sqlKeywords[strings.ToUpper(word)] {
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

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
