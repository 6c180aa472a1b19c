package lang

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACE   // "{"
	RBRACE   // "}"
	LBRACKET // "["
	RBRACKET // "]"
	SEMI     // ";"
	COMMA    // ","
	COLON    // ":"
	QUESTION // "?"
	DOT      // "."

	// Operators
	ASSIGN     // "="
	PLUS       // "+"
	MINUS      // "-"
	STAR       // "*"
	SLASH      // "/"
	PERCENT    // "%"
	PLUSEQ     // "+="
	MINUSEQ    // "-="
	STAREQ     // "*="
	SLASHEQ    // "/="
	PERCENTEQ  // "%="
	INC        // "++"
	DEC        // "--"
	EQ         // "=="
	NEQ        // "!="
	STRICTEQ   // "==="
	STRICTNEQ  // "!=="
	LT         // "<"
	LTEQ       // "<="
	GT         // ">"
	GTEQ       // ">="
	NOT        // "!"
	LOGICALAND // "&&"
	LOGICALOR  // "||"

	// Literals and identifiers
	IDENT
	STRING
	NUMBER

	// Keywords
	VAR
	LET
	CONST
	FUNCTION
	IF
	ELSE
	WHILE
	FOR
	RETURN
	BREAK
	CONTINUE
	TYPEOF
	TRUE
	FALSE
	NULL
	UNDEFINED
)

// Token is a lexical token with position information and, for literal
// tokens, the decoded value.
type Token struct {
	Type   TokenType
	Lexeme string  // raw source text
	Str    string  // decoded value for STRING tokens
	Num    float64 // decoded value for NUMBER tokens
	Line   int     // 1-based line of the first rune
	Col    int     // 1-based column of the first rune
}

// keywords maps reserved identifier spellings to their token types.
//
//nolint:gochecknoglobals
var keywords = map[string]TokenType{
	"var":       VAR,
	"let":       LET,
	"const":     CONST,
	"function":  FUNCTION,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"for":       FOR,
	"return":    RETURN,
	"break":     BREAK,
	"continue":  CONTINUE,
	"typeof":    TYPEOF,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"undefined": UNDEFINED,
}

// String returns the conventional spelling of the token type for use in
// error messages.
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "end of input"
	case ILLEGAL:
		return "illegal token"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case LBRACE:
		return "{"
	case RBRACE:
		return "}"
	case LBRACKET:
		return "["
	case RBRACKET:
		return "]"
	case SEMI:
		return ";"
	case COMMA:
		return ","
	case COLON:
		return ":"
	case QUESTION:
		return "?"
	case DOT:
		return "."
	case ASSIGN:
		return "="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case PLUSEQ:
		return "+="
	case MINUSEQ:
		return "-="
	case STAREQ:
		return "*="
	case SLASHEQ:
		return "/="
	case PERCENTEQ:
		return "%="
	case INC:
		return "++"
	case DEC:
		return "--"
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case STRICTEQ:
		return "==="
	case STRICTNEQ:
		return "!=="
	case LT:
		return "<"
	case LTEQ:
		return "<="
	case GT:
		return ">"
	case GTEQ:
		return ">="
	case NOT:
		return "!"
	case LOGICALAND:
		return "&&"
	case LOGICALOR:
		return "||"
	case IDENT:
		return "identifier"
	case STRING:
		return "string literal"
	case NUMBER:
		return "number literal"
	case VAR:
		return "var"
	case LET:
		return "let"
	case CONST:
		return "const"
	case FUNCTION:
		return "function"
	case IF:
		return "if"
	case ELSE:
		return "else"
	case WHILE:
		return "while"
	case FOR:
		return "for"
	case RETURN:
		return "return"
	case BREAK:
		return "break"
	case CONTINUE:
		return "continue"
	case TYPEOF:
		return "typeof"
	case TRUE:
		return "true"
	case FALSE:
		return "false"
	case NULL:
		return "null"
	case UNDEFINED:
		return "undefined"
	default:
		return "unknown"
	}
}
