package lang

import (
	"math"
	"strconv"
	"strings"
)

// FoldConstants performs one bottom-up folding pass over every expression in
// the tree, evaluating operations whose operands are literals. It returns
// the number of rewrites performed. Operations whose result has no literal
// spelling (NaN or an infinity) are left in place.
func FoldConstants(prog *Program) int {
	f := &folder{}

	f.foldProgram(prog)

	return f.count
}

// EliminateDeadBranches performs one pass replacing statement-level
// conditionals whose condition is a literal: an if statement keeps only the
// live branch, and a loop with a falsy condition is removed (its for-loop
// initializer, which runs once regardless, survives). It returns the number
// of conditionals eliminated. Loops with truthy literal conditions are left
// alone.
func EliminateDeadBranches(prog *Program) int {
	e := &eliminator{}

	prog.Body = e.stmts(prog.Body)

	return e.count
}

// truthy reports the boolean coercion of a literal value.
func truthy(l *Literal) bool {
	switch l.Kind {
	case LitString:
		return l.Str != ""
	case LitNumber:
		return l.Num != 0 && !math.IsNaN(l.Num)
	case LitBool:
		return l.Bool
	default: // null, undefined
		return false
	}
}

// toNumber coerces a literal value to a number. The result may be NaN.
func toNumber(l *Literal) float64 {
	switch l.Kind {
	case LitNumber:
		return l.Num

	case LitBool:
		if l.Bool {
			return 1
		}

		return 0

	case LitNull:
		return 0

	case LitString:
		return stringToNumber(l.Str)

	default: // undefined
		return math.NaN()
	}
}

// stringToNumber implements string-to-number coercion: surrounding
// whitespace is ignored, the empty string is zero, and 0x/0o/0b prefixed
// integers and signed Infinity are recognized.
func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)

	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		if base := radix(s); base != 10 {
			value, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}

			return float64(value)
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return value
}

// toString coerces a literal value to its string representation.
func toString(l *Literal) string {
	switch l.Kind {
	case LitString:
		return l.Str
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

// folder tracks the rewrite count of one folding pass.
type folder struct {
	count int
}

func (f *folder) foldProgram(prog *Program) {
	for _, s := range prog.Body {
		f.stmt(s)
	}
}

func (f *folder) stmt(s Stmt) {
	switch x := s.(type) {
	case *BlockStmt:
		for _, inner := range x.Body {
			f.stmt(inner)
		}

	case *VarStmt:
		for _, d := range x.Decls {
			d.Init = f.expr(d.Init)
		}

	case *FuncDecl:
		f.stmt(x.Body)

	case *IfStmt:
		x.Cond = f.expr(x.Cond)
		f.stmt(x.Then)

		if x.Else != nil {
			f.stmt(x.Else)
		}

	case *WhileStmt:
		x.Cond = f.expr(x.Cond)
		f.stmt(x.Body)

	case *ForStmt:
		if x.Init != nil {
			f.stmt(x.Init)
		}

		x.Cond = f.expr(x.Cond)
		x.Post = f.expr(x.Post)
		f.stmt(x.Body)

	case *ReturnStmt:
		x.Arg = f.expr(x.Arg)

	case *ExprStmt:
		x.X = f.expr(x.X)
	}
}

// expr folds one expression bottom-up, returning the simplified node.
func (f *folder) expr(e Expr) Expr {
	if e == nil {
		return nil
	}

	switch x := e.(type) {
	case *Member:
		x.Obj = f.expr(x.Obj)

	case *Index:
		x.Obj = f.expr(x.Obj)
		x.Key = f.expr(x.Key)

	case *Call:
		x.Callee = f.expr(x.Callee)

		for i, a := range x.Args {
			x.Args[i] = f.expr(a)
		}

	case *Unary:
		x.X = f.expr(x.X)

		return f.unary(x)

	case *Binary:
		x.L = f.expr(x.L)
		x.R = f.expr(x.R)

		return f.binary(x)

	case *Logical:
		x.L = f.expr(x.L)
		x.R = f.expr(x.R)

		return f.logical(x)

	case *CondExpr:
		x.Test = f.expr(x.Test)
		x.Then = f.expr(x.Then)
		x.Else = f.expr(x.Else)

		if test, ok := x.Test.(*Literal); ok {
			f.count++

			if truthy(test) {
				return x.Then
			}

			return x.Else
		}

	case *Assign:
		x.Value = f.expr(x.Value)

	case *ArrayLit:
		for i, el := range x.Elems {
			x.Elems[i] = f.expr(el)
		}

	case *ObjectLit:
		for _, p := range x.Props {
			p.Value = f.expr(p.Value)
		}

	case *FuncLit:
		f.stmt(x.Body)
	}

	return e
}

// unary folds a prefix operation on a literal operand.
func (f *folder) unary(x *Unary) Expr {
	lit, ok := x.X.(*Literal)
	if !ok {
		return x
	}

	switch x.Op {
	case NOT:
		f.count++

		return &Literal{Kind: LitBool, Bool: !truthy(lit)}

	case TYPEOF:
		f.count++

		switch lit.Kind {
		case LitString:
			return &Literal{Kind: LitString, Str: "string"}
		case LitNumber:
			return &Literal{Kind: LitString, Str: "number"}
		case LitBool:
			return &Literal{Kind: LitString, Str: "boolean"}
		case LitNull:
			// typeof null is "object", a quirk the language never fixed.
			return &Literal{Kind: LitString, Str: "object"}
		default:
			return &Literal{Kind: LitString, Str: "undefined"}
		}

	case MINUS:
		return f.numeric(x, -toNumber(lit))

	case PLUS:
		return f.numeric(x, toNumber(lit))
	}

	return x
}

// binary folds an operation whose operands are both literals.
func (f *folder) binary(x *Binary) Expr {
	l, ok := x.L.(*Literal)
	if !ok {
		return x
	}

	r, ok := x.R.(*Literal)
	if !ok {
		return x
	}

	switch x.Op {
	case PLUS:
		if l.Kind == LitString || r.Kind == LitString {
			f.count++

			return &Literal{Kind: LitString, Str: toString(l) + toString(r)}
		}

		return f.numeric(x, toNumber(l)+toNumber(r))

	case MINUS:
		return f.numeric(x, toNumber(l)-toNumber(r))

	case STAR:
		return f.numeric(x, toNumber(l)*toNumber(r))

	case SLASH:
		return f.numeric(x, toNumber(l)/toNumber(r))

	case PERCENT:
		return f.numeric(x, math.Mod(toNumber(l), toNumber(r)))

	case EQ:
		return f.boolean(looseEq(l, r))

	case NEQ:
		return f.boolean(!looseEq(l, r))

	case STRICTEQ:
		return f.boolean(strictEq(l, r))

	case STRICTNEQ:
		return f.boolean(!strictEq(l, r))

	case LT, LTEQ, GT, GTEQ:
		return f.relational(x.Op, l, r)
	}

	return x
}

// numeric commits a numeric fold unless the result has no literal spelling.
func (f *folder) numeric(original Expr, value float64) Expr {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return original
	}

	f.count++

	return &Literal{Kind: LitNumber, Num: value}
}

// boolean commits a boolean fold.
func (f *folder) boolean(value bool) Expr {
	f.count++

	return &Literal{Kind: LitBool, Bool: value}
}

// relational folds an ordering comparison. Two strings compare
// lexicographically; anything else compares numerically, where a NaN
// operand makes every comparison false.
func (f *folder) relational(op TokenType, l, r *Literal) Expr {
	if l.Kind == LitString && r.Kind == LitString {
		switch op {
		case LT:
			return f.boolean(l.Str < r.Str)
		case LTEQ:
			return f.boolean(l.Str <= r.Str)
		case GT:
			return f.boolean(l.Str > r.Str)
		default:
			return f.boolean(l.Str >= r.Str)
		}
	}

	ln, rn := toNumber(l), toNumber(r)
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return f.boolean(false)
	}

	switch op {
	case LT:
		return f.boolean(ln < rn)
	case LTEQ:
		return f.boolean(ln <= rn)
	case GT:
		return f.boolean(ln > rn)
	default:
		return f.boolean(ln >= rn)
	}
}

// logical folds a short-circuit operation with a literal left operand. The
// result is the operand that evaluation would yield, which need not be a
// literal itself.
func (f *folder) logical(x *Logical) Expr {
	l, ok := x.L.(*Literal)
	if !ok {
		return x
	}

	f.count++

	if (x.Op == LOGICALAND) == truthy(l) {
		return x.R
	}

	return x.L
}

// strictEq implements === on literal values: different kinds never compare
// equal, and NaN is not equal to itself.
func strictEq(l, r *Literal) bool {
	if l.Kind != r.Kind {
		return false
	}

	switch l.Kind {
	case LitString:
		return l.Str == r.Str
	case LitNumber:
		return l.Num == r.Num
	case LitBool:
		return l.Bool == r.Bool
	default: // null === null, undefined === undefined
		return true
	}
}

// looseEq implements == on literal values, including the null/undefined
// pairing and numeric coercion of mixed-kind operands.
func looseEq(l, r *Literal) bool {
	if l.Kind == r.Kind {
		return strictEq(l, r)
	}

	lNullish := l.Kind == LitNull || l.Kind == LitUndefined
	rNullish := r.Kind == LitNull || r.Kind == LitUndefined

	if lNullish || rNullish {
		return lNullish && rNullish
	}

	// Remaining mixed pairs (number/string/boolean) coerce numerically.
	ln, rn := toNumber(l), toNumber(r)

	return ln == rn && !math.IsNaN(ln)
}

// eliminator tracks the count of one dead-branch elimination pass.
type eliminator struct {
	count int
}

// stmts rewrites a statement list, replacing each entry as elimination
// dictates.
func (e *eliminator) stmts(body []Stmt) []Stmt {
	for i, s := range body {
		body[i] = e.stmt(s)
	}

	return body
}

// stmt rewrites one statement, returning its replacement.
func (e *eliminator) stmt(s Stmt) Stmt {
	switch x := s.(type) {
	case *BlockStmt:
		x.Body = e.stmts(x.Body)

	case *VarStmt:
		for _, d := range x.Decls {
			e.funcBodies(d.Init)
		}

	case *ExprStmt:
		e.funcBodies(x.X)

	case *ReturnStmt:
		e.funcBodies(x.Arg)

	case *FuncDecl:
		x.Body.Body = e.stmts(x.Body.Body)

	case *IfStmt:
		e.funcBodies(x.Cond)

		x.Then = e.stmt(x.Then)

		if x.Else != nil {
			x.Else = e.stmt(x.Else)
		}

		if cond, ok := x.Cond.(*Literal); ok {
			e.count++

			if truthy(cond) {
				return x.Then
			}

			if x.Else != nil {
				return x.Else
			}

			return &EmptyStmt{}
		}

	case *WhileStmt:
		e.funcBodies(x.Cond)

		x.Body = e.stmt(x.Body)

		if cond, ok := x.Cond.(*Literal); ok && !truthy(cond) {
			e.count++

			return &EmptyStmt{}
		}

	case *ForStmt:
		if x.Init != nil {
			x.Init = e.stmt(x.Init)
		}

		e.funcBodies(x.Cond)
		e.funcBodies(x.Post)
		x.Body = e.stmt(x.Body)

		if cond, ok := x.Cond.(*Literal); ok && !truthy(cond) {
			e.count++

			// The initializer runs once even when the body never does.
			if x.Init != nil {
				return x.Init
			}

			return &EmptyStmt{}
		}
	}

	return s
}

// funcBodies descends into an expression to eliminate dead branches inside
// any function expression bodies it contains.
func (e *eliminator) funcBodies(x Expr) {
	switch v := x.(type) {
	case *FuncLit:
		v.Body.Body = e.stmts(v.Body.Body)

	case *Member:
		e.funcBodies(v.Obj)

	case *Index:
		e.funcBodies(v.Obj)
		e.funcBodies(v.Key)

	case *Call:
		e.funcBodies(v.Callee)

		for _, a := range v.Args {
			e.funcBodies(a)
		}

	case *Unary:
		e.funcBodies(v.X)

	case *Update:
		e.funcBodies(v.X)

	case *Binary:
		e.funcBodies(v.L)
		e.funcBodies(v.R)

	case *Logical:
		e.funcBodies(v.L)
		e.funcBodies(v.R)

	case *CondExpr:
		e.funcBodies(v.Test)
		e.funcBodies(v.Then)
		e.funcBodies(v.Else)

	case *Assign:
		e.funcBodies(v.Target)
		e.funcBodies(v.Value)

	case *ArrayLit:
		for _, el := range v.Elems {
			e.funcBodies(el)
		}

	case *ObjectLit:
		for _, p := range v.Props {
			e.funcBodies(p.Value)
		}
	}
}

