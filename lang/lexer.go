package lang

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans a source unit into a token stream.
type Lexer struct {
	src  []rune
	pos  int
	line int
	col  int
	prev TokenType
}

// NewLexer creates a lexer over the given source runes.
func NewLexer(src []rune) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans the entire source and returns the token stream, terminated
// by an EOF token. The first malformed construct aborts the scan with a
// *ParseError locating the offending rune.
func Tokenize(source string) ([]Token, error) {
	lx := NewLexer([]rune(source))

	var tokens []Token

	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)

		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Next scans and returns the next token.
func (lx *Lexer) Next() (Token, error) {
	tok, err := lx.scan()
	if err != nil {
		return Token{}, err
	}

	lx.prev = tok.Type

	return tok, nil
}

// scan produces the next token without recording it.
func (lx *Lexer) scan() (Token, error) {
	if err := lx.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}

	line, col := lx.line, lx.col

	if lx.eof() {
		return Token{Type: EOF, Line: line, Col: col}, nil
	}

	r := lx.peek()

	switch {
	case isIdentStart(r):
		return lx.scanIdent(line, col), nil

	case unicode.IsDigit(r) || (r == '.' && lx.digitAt(1) && !lx.afterExprEnd()):
		return lx.scanNumber(line, col)

	case r == '\'' || r == '"':
		return lx.scanString(line, col)
	}

	return lx.scanOperator(line, col)
}

// eof reports whether the scan position is past the last rune.
func (lx *Lexer) eof() bool { return lx.pos >= len(lx.src) }

// peek returns the current rune without consuming it.
func (lx *Lexer) peek() rune { return lx.src[lx.pos] }

// peekAt returns the rune at offset from the current position, or zero when
// out of range.
func (lx *Lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}

	return lx.src[lx.pos+offset]
}

// afterExprEnd reports whether the previously scanned token can end an
// expression. A dot following one is member access, never the start of a
// fractional number literal, so "a.1" is a malformed property access
// rather than the two statements "a" and "0.1".
func (lx *Lexer) afterExprEnd() bool {
	switch lx.prev {
	case IDENT, NUMBER, STRING, RPAREN, RBRACKET,
		TRUE, FALSE, NULL, UNDEFINED:
		return true
	default:
		return false
	}
}

// digitAt reports whether the rune at offset is an ASCII digit.
func (lx *Lexer) digitAt(offset int) bool {
	r := lx.peekAt(offset)

	return r >= '0' && r <= '9'
}

// advance consumes one rune, maintaining line and column counters.
func (lx *Lexer) advance() rune {
	r := lx.src[lx.pos]
	lx.pos++

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

// skipSpaceAndComments consumes whitespace, line comments, and block
// comments. An unterminated block comment is a parse error.
func (lx *Lexer) skipSpaceAndComments() error {
	for !lx.eof() {
		r := lx.peek()

		switch {
		case unicode.IsSpace(r):
			lx.advance()

		case r == '/' && lx.peekAt(1) == '/':
			for !lx.eof() && lx.peek() != '\n' {
				lx.advance()
			}

		case r == '/' && lx.peekAt(1) == '*':
			line, col := lx.line, lx.col
			lx.advance()
			lx.advance()

			for {
				if lx.eof() {
					return newParseErrorAt(line, col, "unterminated block comment")
				}

				if lx.peek() == '*' && lx.peekAt(1) == '/' {
					lx.advance()
					lx.advance()

					break
				}

				lx.advance()
			}

		default:
			return nil
		}
	}

	return nil
}

// scanIdent consumes an identifier or keyword.
func (lx *Lexer) scanIdent(line, col int) Token {
	start := lx.pos
	for !lx.eof() && isIdentPart(lx.peek()) {
		lx.advance()
	}

	lexeme := string(lx.src[start:lx.pos])

	if kw, ok := keywords[lexeme]; ok {
		return Token{Type: kw, Lexeme: lexeme, Line: line, Col: col}
	}

	return Token{Type: IDENT, Lexeme: lexeme, Line: line, Col: col}
}

// scanNumber consumes a numeric literal: decimal, float with optional
// exponent, or a 0x/0o/0b prefixed integer.
func (lx *Lexer) scanNumber(line, col int) (Token, error) {
	start := lx.pos

	if lx.peek() == '0' && (lower(lx.peekAt(1)) == 'x' ||
		lower(lx.peekAt(1)) == 'o' || lower(lx.peekAt(1)) == 'b') {
		lx.advance() // 0
		lx.advance() // x, o, or b

		digits := lx.pos
		for !lx.eof() && isIdentPart(lx.peek()) {
			lx.advance()
		}

		lexeme := string(lx.src[start:lx.pos])

		value, err := strconv.ParseUint(string(lx.src[digits:lx.pos]), radix(lexeme), 64)
		if err != nil {
			return Token{}, newParseErrorAt(line, col, "malformed number literal "+strconv.Quote(lexeme))
		}

		return Token{Type: NUMBER, Lexeme: lexeme, Num: float64(value), Line: line, Col: col}, nil
	}

	for !lx.eof() && lx.digitAt(0) {
		lx.advance()
	}

	if !lx.eof() && lx.peek() == '.' {
		lx.advance()
		for !lx.eof() && lx.digitAt(0) {
			lx.advance()
		}
	}

	if !lx.eof() && lower(lx.peek()) == 'e' {
		offset := 1
		if lx.peekAt(1) == '+' || lx.peekAt(1) == '-' {
			offset = 2
		}

		if r := lx.peekAt(offset); r >= '0' && r <= '9' {
			for range offset {
				lx.advance()
			}

			for !lx.eof() && lx.digitAt(0) {
				lx.advance()
			}
		}
	}

	lexeme := string(lx.src[start:lx.pos])

	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Token{}, newParseErrorAt(line, col, "malformed number literal "+strconv.Quote(lexeme))
	}

	return Token{Type: NUMBER, Lexeme: lexeme, Num: value, Line: line, Col: col}, nil
}

// radix returns the integer base encoded by a 0x/0o/0b literal prefix.
func radix(lexeme string) int {
	if len(lexeme) < 2 {
		return 10
	}

	switch lexeme[1] | 0x20 {
	case 'x':
		return 16
	case 'o':
		return 8
	case 'b':
		return 2
	default:
		return 10
	}
}

// scanString consumes a single- or double-quoted string literal, decoding
// escape sequences into Token.Str. The decoding is the inverse of [Quote],
// so substituted values round-trip losslessly.
func (lx *Lexer) scanString(line, col int) (Token, error) {
	quote := lx.advance()
	start := lx.pos - 1

	var sb strings.Builder

	for {
		if lx.eof() {
			return Token{}, newParseErrorAt(line, col, "unterminated string literal")
		}

		r := lx.advance()

		switch r {
		case quote:
			return Token{
				Type:   STRING,
				Lexeme: string(lx.src[start:lx.pos]),
				Str:    sb.String(),
				Line:   line,
				Col:    col,
			}, nil

		case '\n':
			return Token{}, newParseErrorAt(line, col, "unterminated string literal")

		case '\\':
			decoded, err := lx.scanEscape(line, col)
			if err != nil {
				return Token{}, err
			}

			sb.WriteString(decoded)

		default:
			sb.WriteRune(r)
		}
	}
}

// scanEscape decodes one escape sequence following a consumed backslash.
func (lx *Lexer) scanEscape(line, col int) (string, error) {
	if lx.eof() {
		return "", newParseErrorAt(line, col, "unterminated string literal")
	}

	r := lx.advance()

	switch r {
	case 'n':
		return "\n", nil
	case 't':
		return "\t", nil
	case 'r':
		return "\r", nil
	case 'b':
		return "\b", nil
	case 'f':
		return "\f", nil
	case 'v':
		return "\v", nil
	case '0':
		return "\x00", nil
	case '\\', '\'', '"', '`':
		return string(r), nil

	case '\n':
		// Line continuation contributes nothing.
		return "", nil

	case 'x':
		return lx.scanHexEscape(2, line, col)

	case 'u':
		if !lx.eof() && lx.peek() == '{' {
			return lx.scanBracedUnicodeEscape(line, col)
		}

		return lx.scanHexEscape(4, line, col)

	default:
		// Unknown escapes decode to the escaped rune, as in JS.
		return string(r), nil
	}
}

// scanHexEscape decodes exactly n hex digits into a single rune.
func (lx *Lexer) scanHexEscape(n, line, col int) (string, error) {
	var value rune

	for range n {
		if lx.eof() || !isHexDigit(lx.peek()) {
			return "", newParseErrorAt(line, col, "malformed escape sequence in string literal")
		}

		value = value<<4 | hexValue(lx.advance())
	}

	return string(value), nil
}

// scanBracedUnicodeEscape decodes a \u{XXXXXX} escape.
func (lx *Lexer) scanBracedUnicodeEscape(line, col int) (string, error) {
	lx.advance() // {

	var (
		value  rune
		digits int
	)

	for !lx.eof() && isHexDigit(lx.peek()) {
		value = value<<4 | hexValue(lx.advance())
		digits++

		// Reject before another shift can wrap the accumulator.
		if value > utf8.MaxRune {
			return "", newParseErrorAt(line, col, "malformed escape sequence in string literal")
		}
	}

	if digits == 0 || lx.eof() || lx.peek() != '}' {
		return "", newParseErrorAt(line, col, "malformed escape sequence in string literal")
	}

	lx.advance() // }

	return string(value), nil
}

// scanOperator consumes a punctuation or operator token, longest match
// first.
func (lx *Lexer) scanOperator(line, col int) (Token, error) {
	type match struct {
		text string
		typ  TokenType
	}

	// Ordered longest-first so "===" wins over "==" wins over "=".
	for _, m := range []match{
		{"===", STRICTEQ},
		{"!==", STRICTNEQ},
		{"==", EQ},
		{"!=", NEQ},
		{"<=", LTEQ},
		{">=", GTEQ},
		{"&&", LOGICALAND},
		{"||", LOGICALOR},
		{"++", INC},
		{"--", DEC},
		{"+=", PLUSEQ},
		{"-=", MINUSEQ},
		{"*=", STAREQ},
		{"/=", SLASHEQ},
		{"%=", PERCENTEQ},
		{"(", LPAREN},
		{")", RPAREN},
		{"{", LBRACE},
		{"}", RBRACE},
		{"[", LBRACKET},
		{"]", RBRACKET},
		{";", SEMI},
		{",", COMMA},
		{":", COLON},
		{"?", QUESTION},
		{".", DOT},
		{"=", ASSIGN},
		{"+", PLUS},
		{"-", MINUS},
		{"*", STAR},
		{"/", SLASH},
		{"%", PERCENT},
		{"<", LT},
		{">", GT},
		{"!", NOT},
	} {
		if lx.hasPrefix(m.text) {
			for range len(m.text) {
				lx.advance()
			}

			return Token{Type: m.typ, Lexeme: m.text, Line: line, Col: col}, nil
		}
	}

	return Token{}, newParseErrorAt(
		line, col, "unexpected character "+strconv.QuoteRune(lx.peek()),
	)
}

// hasPrefix reports whether the unconsumed source begins with the given
// ASCII text.
func (lx *Lexer) hasPrefix(text string) bool {
	if lx.pos+len(text) > len(lx.src) {
		return false
	}

	for i := range len(text) {
		if lx.src[lx.pos+i] != rune(text[i]) {
			return false
		}
	}

	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'f') ||
		(r >= 'A' && r <= 'F')
}

func hexValue(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r | 0x20
	}

	return r
}
