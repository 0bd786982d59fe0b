package store

import (
	"strings"
	"unicode"
)

// splitStatements cuts query text into single statements at top-level
// semicolons. Semicolons inside string literals, quoted identifiers,
// comments and trigger bodies do not split. Segments that are blank per
// isBlank are dropped, so the engine never sees an empty statement.
func splitStatements(query string) []string {
	var (
		stmts   []string
		start   int
		trigger bool     // statement is CREATE [TEMP] TRIGGER
		words   []string // leading keywords of the current statement
		last    string   // last keyword seen
	)

	flush := func(end int) {
		if seg := query[start:end]; !isBlank(seg) {
			stmts = append(stmts, strings.TrimSpace(seg))
		}
		start = end
		trigger = false
		words = words[:0]
		last = ""
	}

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(query, i, c)
		case c == '[':
			if end := strings.IndexByte(query[i:], ']'); end >= 0 {
				i += end
			} else {
				i = len(query)
			}
		case strings.HasPrefix(query[i:], "--"):
			if end := strings.IndexByte(query[i:], '\n'); end >= 0 {
				i += end
			} else {
				i = len(query)
			}
		case strings.HasPrefix(query[i:], "/*"):
			if end := strings.Index(query[i+2:], "*/"); end >= 0 {
				i += end + 3
			} else {
				i = len(query)
			}
		case isWordByte(c):
			j := i
			for j < len(query) && isWordByte(query[j]) {
				j++
			}
			last = strings.ToUpper(query[i:j])
			if len(words) < 3 {
				words = append(words, last)
				trigger = trigger || startsTrigger(words)
			}
			i = j - 1
		case c == ';':
			if trigger && last != "END" {
				continue
			}
			flush(i + 1)
		}
	}
	flush(len(query))
	return stmts
}

// skipQuoted returns the index of the quote closing the literal that
// opens at i. A doubled quote is an escaped quote.
func skipQuoted(s string, i int, q byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j
	}
	return len(s)
}

func startsTrigger(words []string) bool {
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	if words[1] == "TRIGGER" {
		return true
	}
	return len(words) == 3 && (words[1] == "TEMP" || words[1] == "TEMPORARY") && words[2] == "TRIGGER"
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 0x80 || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}
