package lang

import "sort"

// scopeKind distinguishes the binding behavior of a scope.
type scopeKind int

const (
	// scopeTop is the source unit's outermost scope.
	scopeTop scopeKind = iota

	// scopeFunc is a function body scope. Hoisted var and function
	// declarations bind here.
	scopeFunc

	// scopeBlock is a braced block scope. Only let and const bind here.
	scopeBlock
)

// Scope is one frame of the lexical scope chain built during analysis.
// Scopes are transient per pass; they are rebuilt from the tree whenever a
// pass needs binding information.
type Scope struct {
	parent *Scope
	kind   scopeKind
	names  map[string]struct{}
}

// newScope creates an empty scope chained to parent.
func newScope(parent *Scope, kind scopeKind) *Scope {
	return &Scope{
		parent: parent,
		kind:   kind,
		names:  make(map[string]struct{}),
	}
}

// declare binds a name in this scope. Redeclaration is a no-op; the analysis
// only needs membership, not declaration order.
func (s *Scope) declare(name string) { s.names[name] = struct{}{} }

// declared reports whether name is bound in this scope or any enclosing
// scope.
func (s *Scope) declared(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.names[name]; ok {
			return true
		}
	}

	return false
}

// funcScope walks up to the nearest function (or top-level) scope. This is
// where var and function declarations hoist to.
func (s *Scope) funcScope() *Scope {
	sc := s
	for sc.kind == scopeBlock {
		sc = sc.parent
	}

	return sc
}

// hoistInto pre-declares every var declarator and function declaration name
// reachable from the statement list without crossing a nested function
// boundary. JS hoists these bindings to the top of the enclosing function
// before any statement executes, so a var declared mid-body still shadows a
// define throughout that body.
func hoistInto(scope *Scope, body []Stmt) {
	target := scope.funcScope()

	var walk func(Stmt)

	walk = func(s Stmt) {
		switch x := s.(type) {
		case *VarStmt:
			if x.Keyword == "var" {
				for _, d := range x.Decls {
					target.declare(d.Name)
				}
			}

		case *FuncDecl:
			target.declare(x.Name)

		case *BlockStmt:
			for _, inner := range x.Body {
				walk(inner)
			}

		case *IfStmt:
			walk(x.Then)

			if x.Else != nil {
				walk(x.Else)
			}

		case *WhileStmt:
			walk(x.Body)

		case *ForStmt:
			if x.Init != nil {
				walk(x.Init)
			}

			walk(x.Body)
		}
	}

	for _, s := range body {
		walk(s)
	}
}

// declareLexical binds the let and const declarators of the immediate
// statement list into scope. Unlike var, these do not hoist past block
// boundaries.
func declareLexical(scope *Scope, body []Stmt) {
	for _, s := range body {
		vs, ok := s.(*VarStmt)
		if !ok || vs.Keyword == "var" {
			continue
		}

		for _, d := range vs.Decls {
			scope.declare(d.Name)
		}
	}
}

// enterBlock creates and populates the scope of a block's statement list.
func enterBlock(parent *Scope, body []Stmt) *Scope {
	scope := newScope(parent, scopeBlock)
	declareLexical(scope, body)

	return scope
}

// enterFunc creates and populates the scope of a function body, binding the
// parameters and the function's own name (so recursive references resolve)
// and hoisting the body's var and function declarations.
func enterFunc(parent *Scope, name string, params []string, body *BlockStmt) *Scope {
	scope := newScope(parent, scopeFunc)

	if name != "" {
		scope.declare(name)
	}

	for _, p := range params {
		scope.declare(p)
	}

	hoistInto(scope, body.Body)
	declareLexical(scope, body.Body)

	return scope
}

// enterTop creates and populates the source unit's outermost scope.
func enterTop(prog *Program) *Scope {
	scope := newScope(nil, scopeTop)

	hoistInto(scope, prog.Body)
	declareLexical(scope, prog.Body)

	return scope
}

// FreeVariables returns the sorted set of identifier names that occur
// unbound somewhere in the source unit. An identifier is free at an
// occurrence when no enclosing declaration binds it there; the same name may
// be free in one scope and bound in another.
func FreeVariables(prog *Program) []string {
	free := make(map[string]struct{})

	visitFreeIdents(prog, func(name string) {
		free[name] = struct{}{}
	})

	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// visitFreeIdents walks the tree with a live scope chain and reports the
// name of every identifier occurrence that no enclosing scope binds.
// Property names of member accesses and object literal keys are not
// identifier occurrences.
func visitFreeIdents(prog *Program, report func(name string)) {
	var walkStmt func(*Scope, Stmt)

	var walkExpr func(*Scope, Expr)

	walkExpr = func(scope *Scope, e Expr) {
		if e == nil {
			return
		}

		switch x := e.(type) {
		case *Ident:
			if !scope.declared(x.Name) {
				report(x.Name)
			}

		case *Member:
			walkExpr(scope, x.Obj)

		case *Index:
			walkExpr(scope, x.Obj)
			walkExpr(scope, x.Key)

		case *Call:
			walkExpr(scope, x.Callee)

			for _, a := range x.Args {
				walkExpr(scope, a)
			}

		case *Unary:
			walkExpr(scope, x.X)

		case *Update:
			walkExpr(scope, x.X)

		case *Binary:
			walkExpr(scope, x.L)
			walkExpr(scope, x.R)

		case *Logical:
			walkExpr(scope, x.L)
			walkExpr(scope, x.R)

		case *CondExpr:
			walkExpr(scope, x.Test)
			walkExpr(scope, x.Then)
			walkExpr(scope, x.Else)

		case *Assign:
			walkExpr(scope, x.Target)
			walkExpr(scope, x.Value)

		case *ArrayLit:
			for _, el := range x.Elems {
				walkExpr(scope, el)
			}

		case *ObjectLit:
			for _, p := range x.Props {
				walkExpr(scope, p.Value)
			}

		case *FuncLit:
			inner := enterFunc(scope, x.Name, x.Params, x.Body)
			for _, s := range x.Body.Body {
				walkStmt(inner, s)
			}
		}
	}

	walkStmt = func(scope *Scope, s Stmt) {
		switch x := s.(type) {
		case *BlockStmt:
			inner := enterBlock(scope, x.Body)
			for _, stmt := range x.Body {
				walkStmt(inner, stmt)
			}

		case *VarStmt:
			// Names are already declared by hoisting or lexical
			// collection; only initializers can reference.
			for _, d := range x.Decls {
				walkExpr(scope, d.Init)
			}

		case *FuncDecl:
			inner := enterFunc(scope, x.Name, x.Params, x.Body)
			for _, stmt := range x.Body.Body {
				walkStmt(inner, stmt)
			}

		case *IfStmt:
			walkExpr(scope, x.Cond)
			walkStmt(scope, x.Then)

			if x.Else != nil {
				walkStmt(scope, x.Else)
			}

		case *WhileStmt:
			walkExpr(scope, x.Cond)
			walkStmt(scope, x.Body)

		case *ForStmt:
			inner := newScope(scope, scopeBlock)

			if vs, ok := x.Init.(*VarStmt); ok && vs.Keyword != "var" {
				for _, d := range vs.Decls {
					inner.declare(d.Name)
				}
			}

			if x.Init != nil {
				walkStmt(inner, x.Init)
			}

			walkExpr(inner, x.Cond)
			walkExpr(inner, x.Post)
			walkStmt(inner, x.Body)

		case *ReturnStmt:
			walkExpr(scope, x.Arg)

		case *ExprStmt:
			walkExpr(scope, x.X)
		}
	}

	top := enterTop(prog)
	for _, s := range prog.Body {
		walkStmt(top, s)
	}
}
