package derive

import "strings"

// CleanText strips content that quotes other people's words or code before
// keyword matching: first backtick code spans (fenced or inline, honoring
// escaped backticks), then block-quoted lines. It is a pure function with no
// knowledge of the keyword list.
func CleanText(s string) string {
	return stripBlockQuotes(stripCodeSpans(s))
}

// stripCodeSpans removes runs of backticks and their enclosed content. A
// backtick preceded by an odd run of backslashes is escaped and stays
// literal; an even run of backslashes before backticks is itself dropped so
// it cannot hide a span. An opening run is only removed when a matching
// standalone run of the same width follows with at least one character in
// between; unmatched runs shrink by one and are retried, mirroring how an
// unpaired fence degrades to a shorter inline span.
func stripCodeSpans(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\\':
			j := i
			for j < len(s) && s[j] == '\\' {
				j++
			}
			run := j - i
			if j < len(s) && s[j] == '`' {
				if run%2 == 0 {
					// Escaped-backslash pairs before a span are dropped.
					i = j
					continue
				}
				// Odd run: the final backslash escapes the first backtick.
				out.WriteString(s[i:j])
				out.WriteByte('`')
				i = j + 1
				continue
			}
			out.WriteString(s[i:j])
			i = j
		case '`':
			j := i
			for j < len(s) && s[j] == '`' {
				j++
			}
			if end, ok := findCloser(s, j, j-i); ok {
				i = end
				continue
			}
			out.WriteByte('`')
			i++
		default:
			out.WriteByte(s[i])
			i++
		}
	}
	return out.String()
}

// findCloser scans for a standalone backtick run of exactly width starting
// after position from, requiring non-empty content between opener and
// closer. Returns the index just past the closing run.
func findCloser(s string, from, width int) (int, bool) {
	i := from
	for i < len(s) {
		if s[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '`' {
			j++
		}
		if j-i == width && i > from {
			return j, true
		}
		i = j
	}
	return 0, false
}

// stripBlockQuotes blanks every line beginning with ">". The line itself
// remains (empty) so line structure is preserved.
func stripBlockQuotes(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
