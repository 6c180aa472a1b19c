package lang

import (
	"math"
	"strconv"
	"strings"
)

// Operator precedence levels, loosest first. Used to decide where the
// emitter must parenthesize.
const (
	precLowest = iota
	precAssign
	precCond
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precCall
)

// Emit renders the tree back to source text with normalized formatting:
// two-space indentation, one statement per line, explicit semicolons, and
// single-quoted strings. Comments do not survive parsing and are not
// reproduced.
func Emit(prog *Program) string {
	em := &emitter{}

	for _, s := range prog.Body {
		em.stmt(s)
	}

	return em.buf.String()
}

// emitter renders statements at the current indent depth.
type emitter struct {
	buf    strings.Builder
	indent int
}

func (em *emitter) line(text string) {
	em.pad()
	em.buf.WriteString(text)
	em.buf.WriteByte('\n')
}

func (em *emitter) pad() {
	for range em.indent {
		em.buf.WriteString("  ")
	}
}

// stmt emits one statement, including its trailing newline. Empty
// statements produced by elimination are dropped.
func (em *emitter) stmt(s Stmt) {
	switch x := s.(type) {
	case *EmptyStmt:
		// dropped

	case *BlockStmt:
		em.line("{")
		em.indent++

		for _, inner := range x.Body {
			em.stmt(inner)
		}

		em.indent--
		em.line("}")

	case *VarStmt:
		em.line(em.varStmt(x) + ";")

	case *FuncDecl:
		em.pad()
		em.buf.WriteString("function " + x.Name + "(" + strings.Join(x.Params, ", ") + ") ")
		em.blockInline(x.Body)
		em.buf.WriteByte('\n')

	case *IfStmt:
		em.pad()
		em.ifChain(x)
		em.buf.WriteByte('\n')

	case *WhileStmt:
		em.pad()
		em.buf.WriteString("while (" + em.expr(x.Cond, precLowest) + ") ")
		em.bodyInline(x.Body)
		em.buf.WriteByte('\n')

	case *ForStmt:
		em.pad()
		em.buf.WriteString("for (")

		switch init := x.Init.(type) {
		case nil:
		case *VarStmt:
			em.buf.WriteString(em.varStmt(init))
		case *ExprStmt:
			em.buf.WriteString(em.expr(init.X, precLowest))
		}

		em.buf.WriteString("; ")

		if x.Cond != nil {
			em.buf.WriteString(em.expr(x.Cond, precLowest))
		}

		em.buf.WriteString("; ")

		if x.Post != nil {
			em.buf.WriteString(em.expr(x.Post, precLowest))
		}

		em.buf.WriteString(") ")
		em.bodyInline(x.Body)
		em.buf.WriteByte('\n')

	case *ReturnStmt:
		if x.Arg != nil {
			em.line("return " + em.expr(x.Arg, precLowest) + ";")
		} else {
			em.line("return;")
		}

	case *BreakStmt:
		em.line("break;")

	case *ContinueStmt:
		em.line("continue;")

	case *ExprStmt:
		text := em.expr(x.X, precLowest)

		// A leading { or function keyword would re-parse as a block or
		// declaration, so the statement expression gets grouped.
		if stmtNeedsParens(x.X) {
			text = "(" + text + ")"
		}

		em.line(text + ";")
	}
}

// ifChain emits an if statement at the current position, folding else-if
// cascades onto one line each.
func (em *emitter) ifChain(x *IfStmt) {
	em.buf.WriteString("if (" + em.expr(x.Cond, precLowest) + ") ")
	em.bodyInline(x.Then)

	if x.Else == nil {
		return
	}

	em.buf.WriteString(" else ")

	if chained, ok := x.Else.(*IfStmt); ok {
		em.ifChain(chained)

		return
	}

	em.bodyInline(x.Else)
}

// bodyInline emits a statement serving as a branch or loop body, starting
// at the current position without leading indentation. Non-block bodies
// are braced so the output shape is uniform.
func (em *emitter) bodyInline(s Stmt) {
	if block, ok := s.(*BlockStmt); ok {
		em.blockInline(block)

		return
	}

	em.blockInline(&BlockStmt{Body: []Stmt{s}})
}

// blockInline emits a block starting at the current position; the closing
// brace lands indented on its own line with no trailing newline.
func (em *emitter) blockInline(block *BlockStmt) {
	em.buf.WriteString("{\n")
	em.indent++

	for _, inner := range block.Body {
		em.stmt(inner)
	}

	em.indent--
	em.pad()
	em.buf.WriteByte('}')
}

// varStmt renders a declaration statement without its terminator.
func (em *emitter) varStmt(x *VarStmt) string {
	var sb strings.Builder

	sb.WriteString(x.Keyword)
	sb.WriteByte(' ')

	for i, d := range x.Decls {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(d.Name)

		if d.Init != nil {
			sb.WriteString(" = ")
			sb.WriteString(em.expr(d.Init, precAssign))
		}
	}

	return sb.String()
}

// expr renders an expression, parenthesizing when its precedence is looser
// than the context requires.
func (em *emitter) expr(e Expr, context int) string {
	text, prec := em.render(e)

	if prec < context {
		return "(" + text + ")"
	}

	return text
}

// render produces an expression's text and its precedence level.
func (em *emitter) render(e Expr) (string, int) {
	switch x := e.(type) {
	case *Literal:
		return em.literal(x), precCall

	case *Ident:
		return x.Name, precCall

	case *Member:
		obj := em.expr(x.Obj, precCall)

		// A numeric literal object would absorb the dot into the number.
		if lit, ok := x.Obj.(*Literal); ok && lit.Kind == LitNumber {
			obj = "(" + obj + ")"
		}

		return obj + "." + x.Prop, precCall

	case *Index:
		return em.expr(x.Obj, precCall) + "[" + em.expr(x.Key, precLowest) + "]", precCall

	case *Call:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = em.expr(a, precAssign)
		}

		return em.expr(x.Callee, precCall) + "(" + strings.Join(args, ", ") + ")", precCall

	case *Unary:
		operand := em.expr(x.X, precUnary)

		op := x.Op.String()
		if x.Op == TYPEOF {
			op += " "
		} else if len(operand) > 0 && operand[0] == op[0] {
			// Keep -(-x) from emitting as the decrement operator.
			op += " "
		}

		return op + operand, precUnary

	case *Update:
		if x.Prefix {
			return x.Op.String() + em.expr(x.X, precUnary), precUnary
		}

		return em.expr(x.X, precCall) + x.Op.String(), precPostfix

	case *Binary:
		prec := binaryPrec(x.Op)

		return em.expr(x.L, prec) + " " + x.Op.String() + " " +
			em.expr(x.R, prec+1), prec

	case *Logical:
		prec := precAnd
		if x.Op == LOGICALOR {
			prec = precOr
		}

		return em.expr(x.L, prec) + " " + x.Op.String() + " " +
			em.expr(x.R, prec+1), prec

	case *CondExpr:
		return em.expr(x.Test, precCond+1) + " ? " +
			em.expr(x.Then, precAssign) + " : " +
			em.expr(x.Else, precAssign), precCond

	case *Assign:
		return em.expr(x.Target, precCall) + " " + x.Op.String() + " " +
			em.expr(x.Value, precAssign), precAssign

	case *ArrayLit:
		elems := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = em.expr(el, precAssign)
		}

		return "[" + strings.Join(elems, ", ") + "]", precCall

	case *ObjectLit:
		if len(x.Props) == 0 {
			return "{}", precCall
		}

		props := make([]string, len(x.Props))

		for i, p := range x.Props {
			key := p.Key
			if p.Quoted || !isIdentName(p.Key) {
				key = Quote(p.Key)
			}

			props[i] = key + ": " + em.expr(p.Value, precAssign)
		}

		return "{ " + strings.Join(props, ", ") + " }", precCall

	case *FuncLit:
		var sb strings.Builder

		sb.WriteString("function ")

		if x.Name != "" {
			sb.WriteString(x.Name)
		}

		sb.WriteString("(" + strings.Join(x.Params, ", ") + ") ")

		inner := &emitter{indent: em.indent}
		inner.blockInline(x.Body)
		sb.WriteString(inner.buf.String())

		return sb.String(), precCall

	default:
		return "", precCall
	}
}

// String renders the literal as source text.
func (l *Literal) String() string {
	var em emitter

	return em.literal(l)
}

func (em *emitter) literal(l *Literal) string {
	switch l.Kind {
	case LitString:
		return Quote(l.Str)
	case LitNumber:
		return formatNumber(l.Num)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitNull:
		return "null"
	default:
		return "undefined"
	}
}

// binaryPrec returns the precedence level of a binary operator.
func binaryPrec(op TokenType) int {
	switch op {
	case EQ, NEQ, STRICTEQ, STRICTNEQ:
		return precEquality
	case LT, LTEQ, GT, GTEQ:
		return precRelational
	case PLUS, MINUS:
		return precAdditive
	default:
		return precMultiplicative
	}
}

// stmtNeedsParens reports whether an expression statement's leftmost token
// would be misparsed as the start of a block or function declaration.
func stmtNeedsParens(e Expr) bool {
	for {
		switch x := e.(type) {
		case *ObjectLit, *FuncLit:
			return true
		case *Member:
			e = x.Obj
		case *Index:
			e = x.Obj
		case *Call:
			e = x.Callee
		case *Update:
			if x.Prefix {
				return false
			}

			e = x.X
		case *Binary:
			e = x.L
		case *Logical:
			e = x.L
		case *CondExpr:
			e = x.Test
		case *Assign:
			e = x.Target
		default:
			return false
		}
	}
}

// isIdentName reports whether text is spellable as a bare identifier.
func isIdentName(text string) bool {
	if text == "" {
		return false
	}

	for i, r := range text {
		if i == 0 && !isIdentStart(r) {
			return false
		}

		if i > 0 && !isIdentPart(r) {
			return false
		}
	}

	_, reserved := keywords[text]

	return !reserved
}

// Quote renders a string value as a single-quoted literal whose escape
// sequences decode back to the identical value.
func Quote(s string) string {
	var sb strings.Builder

	sb.WriteByte('\'')

	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			if r < 0x20 {
				sb.WriteString(`\x` + hexByte(byte(r)))
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('\'')

	return sb.String()
}

// hexByte renders a byte as two lowercase hex digits.
func hexByte(b byte) string {
	const digits = "0123456789abcdef"

	return string([]byte{digits[b>>4], digits[b&0x0f]})
}

// formatNumber renders a number the way the language stringifies it:
// integral values print without a fraction, and negative zero prints as
// zero.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}
