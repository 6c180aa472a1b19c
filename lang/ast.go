package lang

import "strings"

// Node is the common interface of every syntax tree entry.
type Node interface{ node() }

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	expr()
}

// Program is the root of a parsed source unit. The tree is owned exclusively
// by the pass that constructed it and is discarded after emission.
type Program struct {
	Body []Stmt
}

// BlockStmt is a braced statement list. It introduces a lexical scope for
// let and const declarations.
type BlockStmt struct {
	Body []Stmt
}

// VarDecl is a single declarator within a var, let, or const statement.
type VarDecl struct {
	Name string
	Init Expr // nil when the declarator has no initializer
}

// VarStmt is a declaration statement. Keyword is "var", "let", or "const";
// var declarators bind the nearest function scope, the others bind the
// enclosing block.
type VarStmt struct {
	Keyword string
	Decls   []*VarDecl
}

// FuncDecl is a function declaration statement. Its name binds the enclosing
// function scope; its parameters bind the function's own scope.
type FuncDecl struct {
	Name   string
	Params []string
	Body   *BlockStmt
}

// IfStmt is a conditional statement. Else is nil when no alternate exists.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt is a pre-test loop.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// ForStmt is a C-style loop. Init is a VarStmt or ExprStmt; any of the
// three header slots may be nil.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

// ReturnStmt returns from the enclosing function. Arg is nil for a bare
// return.
type ReturnStmt struct {
	Arg Expr
}

// BreakStmt terminates the enclosing loop.
type BreakStmt struct{}

// ContinueStmt advances the enclosing loop.
type ContinueStmt struct{}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	X Expr
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct{}

// LitKind discriminates the literal kinds understood by substitution and
// folding.
type LitKind int

const (
	// LitString is a quoted string literal.
	LitString LitKind = iota

	// LitNumber is a numeric literal.
	LitNumber

	// LitBool is true or false.
	LitBool

	// LitNull is the null literal.
	LitNull

	// LitUndefined is the undefined literal.
	LitUndefined
)

// String returns a human-readable name for the literal kind.
func (k LitKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitNumber:
		return "number"
	case LitBool:
		return "boolean"
	case LitNull:
		return "null"
	case LitUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Literal is a constant value. Exactly one of Str, Num, or Bool is
// meaningful, selected by Kind.
type Literal struct {
	Kind LitKind
	Str  string
	Num  float64
	Bool bool
}

// Clone returns an independent copy of the literal, suitable for grafting
// into a tree without sharing nodes.
func (l *Literal) Clone() *Literal {
	c := *l

	return &c
}

// Ident is an identifier reference.
type Ident struct {
	Name string
}

// Member is a non-computed property access: Obj.Prop.
type Member struct {
	Obj  Expr
	Prop string
}

// Index is a computed property access: Obj[Key].
type Index struct {
	Obj Expr
	Key Expr
}

// Call is a function invocation.
type Call struct {
	Callee Expr
	Args   []Expr
}

// Unary is a prefix operator application: NOT, MINUS, PLUS, or TYPEOF.
type Unary struct {
	Op TokenType
	X  Expr
}

// Update is an increment or decrement expression.
type Update struct {
	Op     TokenType // INC or DEC
	X      Expr
	Prefix bool
}

// Binary is an arithmetic, comparison, or equality operation.
type Binary struct {
	Op TokenType
	L  Expr
	R  Expr
}

// Logical is a short-circuit operation: LOGICALAND or LOGICALOR.
type Logical struct {
	Op TokenType
	L  Expr
	R  Expr
}

// CondExpr is a ternary conditional expression.
type CondExpr struct {
	Test Expr
	Then Expr
	Else Expr
}

// Assign is an assignment expression. Op is ASSIGN or a compound form.
type Assign struct {
	Op     TokenType
	Target Expr
	Value  Expr
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Elems []Expr
}

// Property is a key-value entry of an object literal.
type Property struct {
	Key    string
	Quoted bool // key was written as a string literal
	Value  Expr
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Props []*Property
}

// FuncLit is a function expression. Name may be empty.
type FuncLit struct {
	Name   string
	Params []string
	Body   *BlockStmt
}

func (*Program) node()      {}
func (*BlockStmt) node()    {}
func (*VarStmt) node()      {}
func (*FuncDecl) node()     {}
func (*IfStmt) node()       {}
func (*WhileStmt) node()    {}
func (*ForStmt) node()      {}
func (*ReturnStmt) node()   {}
func (*BreakStmt) node()    {}
func (*ContinueStmt) node() {}
func (*ExprStmt) node()     {}
func (*EmptyStmt) node()    {}
func (*Literal) node()      {}
func (*Ident) node()        {}
func (*Member) node()       {}
func (*Index) node()        {}
func (*Call) node()         {}
func (*Unary) node()        {}
func (*Update) node()       {}
func (*Binary) node()       {}
func (*Logical) node()      {}
func (*CondExpr) node()     {}
func (*Assign) node()       {}
func (*ArrayLit) node()     {}
func (*ObjectLit) node()    {}
func (*FuncLit) node()      {}

func (*BlockStmt) stmt()    {}
func (*VarStmt) stmt()      {}
func (*FuncDecl) stmt()     {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*ForStmt) stmt()      {}
func (*ReturnStmt) stmt()   {}
func (*BreakStmt) stmt()    {}
func (*ContinueStmt) stmt() {}
func (*ExprStmt) stmt()     {}
func (*EmptyStmt) stmt()    {}

func (*Literal) expr()   {}
func (*Ident) expr()     {}
func (*Member) expr()    {}
func (*Index) expr()     {}
func (*Call) expr()      {}
func (*Unary) expr()     {}
func (*Update) expr()    {}
func (*Binary) expr()    {}
func (*Logical) expr()   {}
func (*CondExpr) expr()  {}
func (*Assign) expr()    {}
func (*ArrayLit) expr()  {}
func (*ObjectLit) expr() {}
func (*FuncLit) expr()   {}

// memberPath flattens a pure dotted access chain rooted at an identifier
// into its full path (e.g. "process.env.NODE_ENV") and the root identifier
// name. It reports false for any chain containing a computed access, call,
// or non-identifier root.
func memberPath(e Expr) (path, root string, ok bool) {
	var parts []string

	for {
		switch x := e.(type) {
		case *Member:
			parts = append(parts, x.Prop)
			e = x.Obj

		case *Ident:
			parts = append(parts, x.Name)

			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}

			return strings.Join(parts, "."), x.Name, true

		default:
			return "", "", false
		}
	}
}

// NodeCount returns the number of nodes in the tree. It bounds the
// fold/eliminate fixed-point iteration so that termination is guaranteed on
// any finite input.
func NodeCount(prog *Program) int {
	count := 0

	var countStmt func(Stmt)

	var countExpr func(Expr)

	countExpr = func(e Expr) {
		if e == nil {
			return
		}

		count++

		switch x := e.(type) {
		case *Member:
			countExpr(x.Obj)
		case *Index:
			countExpr(x.Obj)
			countExpr(x.Key)
		case *Call:
			countExpr(x.Callee)
			for _, a := range x.Args {
				countExpr(a)
			}
		case *Unary:
			countExpr(x.X)
		case *Update:
			countExpr(x.X)
		case *Binary:
			countExpr(x.L)
			countExpr(x.R)
		case *Logical:
			countExpr(x.L)
			countExpr(x.R)
		case *CondExpr:
			countExpr(x.Test)
			countExpr(x.Then)
			countExpr(x.Else)
		case *Assign:
			countExpr(x.Target)
			countExpr(x.Value)
		case *ArrayLit:
			for _, el := range x.Elems {
				countExpr(el)
			}
		case *ObjectLit:
			for _, p := range x.Props {
				countExpr(p.Value)
			}
		case *FuncLit:
			countStmt(x.Body)
		}
	}

	countStmt = func(s Stmt) {
		if s == nil {
			return
		}

		count++

		switch x := s.(type) {
		case *BlockStmt:
			for _, inner := range x.Body {
				countStmt(inner)
			}
		case *VarStmt:
			for _, d := range x.Decls {
				countExpr(d.Init)
			}
		case *FuncDecl:
			countStmt(x.Body)
		case *IfStmt:
			countExpr(x.Cond)
			countStmt(x.Then)
			countStmt(x.Else)
		case *WhileStmt:
			countExpr(x.Cond)
			countStmt(x.Body)
		case *ForStmt:
			countStmt(x.Init)
			countExpr(x.Cond)
			countExpr(x.Post)
			countStmt(x.Body)
		case *ReturnStmt:
			countExpr(x.Arg)
		case *ExprStmt:
			countExpr(x.X)
		}
	}

	count++ // the Program node itself

	for _, s := range prog.Body {
		countStmt(s)
	}

	return count
}
