// Package dataset loads the scrape/name CSV inputs, merges them into
// company records, and writes the scraped and merged outputs back to CSV.
package dataset

import "strings"

// ParseList parses a Python-repr-style list literal, e.g. "['a', 'b']" or
// `["a", 'b']`, the format the scraper writes list-valued CSV cells in.
// It is a deliberately narrow stand-in for ast.literal_eval: it only
// understands a flat list of single- or double-quoted strings. Anything
// that doesn't parse as such a list is treated as one bare value.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)

	if raw == "" || raw == "[]" {
		return nil
	}

	if raw[0] != '[' || raw[len(raw)-1] != ']' {
		return []string{raw}
	}

	inner := raw[1 : len(raw)-1]

	items, ok := splitListLiteral(inner)
	if !ok {
		return []string{raw}
	}

	return items
}

// splitListLiteral splits the comma-separated, quoted elements of a list
// literal's interior, respecting quote boundaries. ok is false if any
// element isn't a properly quoted string, signaling the caller should fall
// back to treating the whole input as one value.
func splitListLiteral(inner string) (items []string, ok bool) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, true
	}

	var (
		current strings.Builder
		inQuote byte
	)

	flush := func() bool {
		elem := strings.TrimSpace(current.String())
		current.Reset()

		unquoted, unquoteOK := unquoteElement(elem)
		if !unquoteOK {
			return false
		}

		items = append(items, unquoted)

		return true
	}

	for i := 0; i < len(inner); i++ {
		c := inner[i]

		switch {
		case inQuote != 0:
			current.WriteByte(c)

			if c == inQuote && (i == 0 || inner[i-1] != '\\') {
				inQuote = 0
			}
		case c == '\'' || c == '"':
			inQuote = c
			current.WriteByte(c)
		case c == ',':
			if !flush() {
				return nil, false
			}
		default:
			current.WriteByte(c)
		}
	}

	if !flush() {
		return nil, false
	}

	return items, true
}

func unquoteElement(elem string) (string, bool) {
	if len(elem) < 2 {
		return "", false
	}

	first, last := elem[0], elem[len(elem)-1]
	if (first != '\'' && first != '"') || first != last {
		return "", false
	}

	body := elem[1 : len(elem)-1]
	body = strings.ReplaceAll(body, `\'`, `'`)
	body = strings.ReplaceAll(body, `\"`, `"`)

	return body, true
}
