package csvio

import "strings"

// SplitLine splits one CSV line on commas outside double quotes. A doubled
// quote inside a quoted section is a literal quote. Unquoted fields are
// trimmed. Quoted fields spanning several lines are not supported.
func SplitLine(line string) []string {
	var (
		fields   []string
		b        strings.Builder
		inQuotes bool
		quoted   bool
	)
	flush := func() {
		s := b.String()
		if !quoted {
			s = strings.TrimSpace(s)
		}
		fields = append(fields, s)
		b.Reset()
		quoted = false
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes && c == '"' && i+1 < len(line) && line[i+1] == '"':
			b.WriteByte('"')
			i++
		case c == '"':
			if !quoted && strings.TrimSpace(b.String()) == "" {
				b.Reset()
			}
			inQuotes = !inQuotes
			quoted = true
		case c == ',' && !inQuotes:
			flush()
		case quoted && !inQuotes && (c == ' ' || c == '\t'):
			// padding after a closing quote
		default:
			b.WriteByte(c)
		}
	}
	flush()
	return fields
}

// normalizeHeader lowercases a column name and drops spaces, underscores,
// dashes, dots, parentheses and percent signs.
func normalizeHeader(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch r {
		case ' ', '_', '-', '.', '%', '(', ')', '\uFEFF':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
