package console

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote is returned for a line that ends inside quotes.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// ErrTrailingEscape is returned for a line that ends with a lone backslash.
var ErrTrailingEscape = errors.New("trailing backslash")

// Split breaks a console line into words. Single quotes keep their content
// literally, double quotes allow \" and \\ escapes, and a backslash outside
// quotes escapes the next character.
func Split(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool // next rune is literal
		dqSlash bool // backslash seen inside double quotes
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case dqSlash:
			if r != '"' && r != '\\' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			dqSlash = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				dqSlash = true
			default:
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped, inWord = true, true
		case r == '\'' || r == '"':
			quote, inWord = r, true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if escaped || dqSlash {
		return nil, ErrTrailingEscape
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
