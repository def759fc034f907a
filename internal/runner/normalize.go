package runner

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// DefaultSilentFlag keeps curl from drawing its progress meter into the
// captured output.
const DefaultSilentFlag = "-s"

// span is the byte range of one shell word in the original command text.
type span struct {
	start, end int
}

// Normalize removes every standalone occurrence of flag from command and
// appends exactly one flag at the end. A word counts as the flag when its
// shell-unquoted value equals flag, so "-s" and '-s' match while "-sS",
// "--silent" or a URL containing "-s" do not. Everything that is not a
// removed word, including quoting, pipes and line continuations, is kept
// verbatim.
func Normalize(command, flag string) string {
	if flag == "" {
		return command
	}

	words := splitWords(command)

	var b strings.Builder
	b.Grow(len(command) + len(flag) + 1)

	prevEnd := 0
	for _, w := range words {
		raw := command[w.start:w.end]
		if isFlag(raw, flag) {
			prevEnd = w.end
			continue
		}
		b.WriteString(command[prevEnd:w.start])
		b.WriteString(raw)
		prevEnd = w.end
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return flag
	}
	return out + " " + flag
}

func isFlag(raw, flag string) bool {
	if raw == flag {
		return true
	}
	parts, err := shellquote.Split(raw)
	if err != nil || len(parts) != 1 {
		return false
	}
	return parts[0] == flag
}

// splitWords finds word boundaries the way a POSIX shell would for the
// purpose of locating flags: unquoted blanks separate words, quotes and
// backslash escapes keep characters inside the current word, and a
// backslash-newline is a separator. Unterminated quotes extend to the end.
func splitWords(s string) []span {
	var (
		words    []span
		start    = -1
		inSingle bool
		inDouble bool
	)

	flush := func(end int) {
		if start >= 0 {
			words = append(words, span{start: start, end: end})
			start = -1
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '\\' && i+1 < len(s) {
				i++
			} else if c == '"' {
				inDouble = false
			}
		case c == '\\' && i+1 < len(s) && s[i+1] == '\n':
			flush(i)
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush(i)
		default:
			if start < 0 {
				start = i
			}
			switch c {
			case '\'':
				inSingle = true
			case '"':
				inDouble = true
			case '\\':
				if i+1 < len(s) {
					i++
				}
			}
		}
	}
	flush(len(s))

	return words
}
