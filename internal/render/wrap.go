package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

const tabSize = 8

// Fill wraps text into lines of at most width display columns, following
// Python's textwrap.fill: tabs are expanded, every other whitespace
// character becomes one space, whitespace runs inside a line are kept and
// whitespace is dropped only where a line breaks. Words wider than a line
// are broken, preferring a hyphen inside the piece that fits.
func Fill(text string, width int) string {
	if width <= 0 {
		return text
	}

	chunks := splitChunks(replaceWhitespace(expandTabs(text)))
	var lines []string

	for len(chunks) > 0 {
		var (
			line  []string
			lineW int
		)

		if isBlank(chunks[0]) && len(lines) > 0 {
			chunks = chunks[1:]
		}

		for len(chunks) > 0 {
			w := runewidth.StringWidth(chunks[0])
			if lineW+w > width {
				break
			}
			line = append(line, chunks[0])
			lineW += w
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && runewidth.StringWidth(chunks[0]) > width {
			head, rest := breakLong(chunks[0], width-lineW, lineW == 0)
			if head != "" {
				line = append(line, head)
			}
			if rest == "" {
				chunks = chunks[1:]
			} else {
				chunks[0] = rest
			}
		}

		if n := len(line); n > 0 && isBlank(line[n-1]) {
			line = line[:n-1]
		}
		if len(line) > 0 {
			lines = append(lines, strings.Join(line, ""))
		}
	}

	return strings.Join(lines, "\n")
}

func isWrapSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isBlank(chunk string) bool {
	return chunk != "" && isWrapSpace([]rune(chunk)[0])
}

// expandTabs replaces tabs with spaces up to the next multiple of tabSize,
// restarting the column at line breaks.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabSize - col%tabSize
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

func replaceWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if isWrapSpace(r) {
			return ' '
		}
		return r
	}, s)
}

// splitChunks cuts s into alternating runs of spaces and words. Hyphenated
// words are split after a hyphen between letters, so "well-known" becomes
// "well-" and "known".
func splitChunks(s string) []string {
	var chunks []string
	runes := []rune(s)
	start := 0
	for i := 0; i < len(runes); i++ {
		space := isWrapSpace(runes[i])
		if i+1 < len(runes) && isWrapSpace(runes[i+1]) == space && !(!space && hyphenBreak(runes, i)) {
			continue
		}
		chunks = append(chunks, string(runes[start:i+1]))
		start = i + 1
	}
	return chunks
}

// hyphenBreak reports whether a word may break after runes[i].
func hyphenBreak(runes []rune, i int) bool {
	if runes[i] != '-' || i < 2 || i+1 >= len(runes) {
		return false
	}
	prev := unicode.IsLetter(runes[i-1])
	twoLetters := prev && unicode.IsLetter(runes[i-2])
	afterHyphenated := prev && runes[i-2] == '-' && i >= 3 && unicode.IsLetter(runes[i-3])
	if !twoLetters && !afterHyphenated {
		return false
	}
	next := runes[i+1]
	if !unicode.IsLetter(next) {
		return false
	}
	if i+2 >= len(runes) {
		return false
	}
	after := runes[i+2]
	if unicode.IsLetter(after) {
		return true
	}
	return after == '-' && i+3 < len(runes) && unicode.IsLetter(runes[i+3])
}

// breakLong takes the piece of chunk that fits in cols columns. When a
// hyphen falls inside that piece, the break goes right after it.
func breakLong(chunk string, cols int, force bool) (string, string) {
	head, rest := cut(chunk, cols, force)
	if rest == "" {
		return head, rest
	}
	if i := strings.LastIndexByte(head, '-'); i > 0 && strings.Trim(head[:i], "-") != "" {
		return chunk[:i+1], chunk[i+1:]
	}
	return head, rest
}

// cut splits s after at most cols display columns. With force at least one
// rune is taken, so a rune wider than cols cannot stall the caller.
func cut(s string, cols int, force bool) (string, string) {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > cols {
			if i == 0 && force {
				n := len(string(r))
				return s[:n], s[n:]
			}
			return s[:i], s[i:]
		}
		w += rw
	}
	return s, ""
}
