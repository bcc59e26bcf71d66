package expression

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokVariable
	tokNumber
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// two-character operators must be tried before their one-character prefixes
var operators = []string{"==", "!=", "<>", "<=", ">=", "&&", "||", "=", "<", ">", "!", "+", "-", "*", "/", "%"}

func tokenize(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r == '{':
			end := i + 1
			for end < len(runes) && runes[end] != '}' {
				end++
			}
			if end >= len(runes) {
				return nil, syntaxError(i, "unterminated variable")
			}
			name := strings.TrimSpace(string(runes[i+1 : end]))
			if name == "" {
				return nil, syntaxError(i, "empty variable name")
			}
			tokens = append(tokens, token{kind: tokVariable, text: name, pos: i})
			i = end + 1

		case r == '\'' || r == '"':
			var sb strings.Builder
			end := i + 1
			for end < len(runes) && runes[end] != r {
				if runes[end] == '\\' && end+1 < len(runes) {
					end++
				}
				sb.WriteRune(runes[end])
				end++
			}
			if end >= len(runes) {
				return nil, syntaxError(i, "unterminated string")
			}
			tokens = append(tokens, token{kind: tokString, text: sb.String(), pos: i})
			i = end + 1

		case unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			end := i
			for end < len(runes) && (unicode.IsDigit(runes[end]) || runes[end] == '.') {
				end++
			}
			if end < len(runes) && (runes[end] == 'e' || runes[end] == 'E') {
				end++
				if end < len(runes) && (runes[end] == '+' || runes[end] == '-') {
					end++
				}
				for end < len(runes) && unicode.IsDigit(runes[end]) {
					end++
				}
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[i:end]), pos: i})
			i = end

		case unicode.IsLetter(r) || r == '_':
			end := i
			for end < len(runes) && (unicode.IsLetter(runes[end]) || unicode.IsDigit(runes[end]) || runes[end] == '_') {
				end++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[i:end]), pos: i})
			i = end

		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == '[':
			tokens = append(tokens, token{kind: tokLBracket, text: "[", pos: i})
			i++
		case r == ']':
			tokens = append(tokens, token{kind: tokRBracket, text: "]", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++

		default:
			rest := string(runes[i:])
			matched := ""
			for _, op := range operators {
				if strings.HasPrefix(rest, op) {
					matched = op
					break
				}
			}
			if matched == "" {
				return nil, syntaxError(i, fmt.Sprintf("unexpected character %q", r))
			}
			tokens = append(tokens, token{kind: tokOp, text: matched, pos: i})
			i += len([]rune(matched))
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(runes)})
	return tokens, nil
}
