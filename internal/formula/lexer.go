package formula

import (
	"strconv"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenName
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenFloorDiv
	tokenPower
	tokenLParen
	tokenRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of formula"
	case tokenNumber:
		return "number"
	case tokenName:
		return "name"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenStar:
		return "'*'"
	case tokenSlash:
		return "'/'"
	case tokenFloorDiv:
		return "'//'"
	case tokenPower:
		return "'**'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return "token(" + strconv.Itoa(int(k)) + ")"
	}
}

type token struct {
	kind  tokenKind
	text  string
	value float64 // set for tokenNumber
	pos   int
}

// tokenize splits text into tokens terminated by a tokenEOF token.
func tokenize(text string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(text) && isDigit(text[i+1])):
			end := scanNumber(text, i)
			v, err := strconv.ParseFloat(text[i:end], 64)
			if err != nil {
				return nil, syntaxErrorf(i, "malformed number %q", text[i:end])
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text[i:end], value: v, pos: i})
			i = end
		case isLetter(c):
			end := i + 1
			for end < len(text) && (isLetter(text[end]) || isDigit(text[end])) {
				end++
			}
			tokens = append(tokens, token{kind: tokenName, text: text[i:end], pos: i})
			i = end
		case c == '*' && i+1 < len(text) && text[i+1] == '*':
			tokens = append(tokens, token{kind: tokenPower, text: "**", pos: i})
			i += 2
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			tokens = append(tokens, token{kind: tokenFloorDiv, text: "//", pos: i})
			i += 2
		default:
			kind, ok := singleCharTokens[c]
			if !ok {
				r, _ := utf8.DecodeRuneInString(text[i:])

				return nil, syntaxErrorf(i, "unexpected character %q", r)
			}
			tokens = append(tokens, token{kind: kind, text: text[i : i+1], pos: i})
			i++
		}
	}

	return append(tokens, token{kind: tokenEOF, pos: len(text)}), nil
}

var singleCharTokens = map[byte]tokenKind{ //nolint: gochecknoglobals
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'(': tokenLParen,
	')': tokenRParen,
}

// scanNumber returns the end offset of the numeric literal starting at start:
// digits, an optional fraction and an optional exponent. The exponent is only
// consumed when digits follow it, so "2e" stays a number and a name.
func scanNumber(text string, start int) int {
	i := start
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i < len(text) && text[i] == '.' {
		i++
		for i < len(text) && isDigit(text[i]) {
			i++
		}
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		j := i + 1
		if j < len(text) && (text[j] == '+' || text[j] == '-') {
			j++
		}
		if j < len(text) && isDigit(text[j]) {
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			i = j
		}
	}

	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
