package textutil

import "strings"

// SanitizeJSON repairs the JSON damage LLMs commonly produce: // line
// comments, trailing commas, and raw newlines or tabs inside string values.
// Quoted content is never altered apart from escaping control characters.
func SanitizeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteByte(c)
			case c == '\\':
				escaped = true
				b.WriteByte(c)
			case c == '"':
				inString = false
				b.WriteByte(c)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\r':
				b.WriteString(`\r`)
			case c == '\t':
				b.WriteString(`\t`)
			default:
				b.WriteByte(c)
			}
			continue
		}

		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		if c == ',' && closesNext(s[i+1:]) {
			continue
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}

	return b.String()
}

// closesNext reports whether the next significant byte closes an object or
// array. Comments between the comma and the bracket are skipped.
func closesNext(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		default:
			return c == '}' || c == ']'
		}
	}
	return false
}
