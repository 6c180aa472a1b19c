package lang

// Table maps identifier names and dotted member paths to the literal values
// substituted for their free occurrences. Keys are either simple names
// ("DEBUG") or full dotted paths ("process.env.NODE_ENV"); a dotted key
// matches only the exact full chain, never a prefix or suffix of a longer
// one.
type Table map[string]*Literal

// Substitute replaces every free occurrence of a table key in the tree with
// a copy of its literal value and returns the number of replacements made.
// An occurrence is free when no enclosing declaration binds its root
// identifier. Write targets (assignments, increments) are never substituted.
func Substitute(prog *Program, table Table) int {
	if len(table) == 0 {
		return 0
	}

	sub := &substituter{table: table}

	top := enterTop(prog)
	for _, s := range prog.Body {
		sub.stmt(top, s)
	}

	return sub.count
}

// substituter carries the table and replacement count through the walk.
type substituter struct {
	table Table
	count int
}

// lookup resolves an expression against the table. It matches the maximal
// dotted chain first so that a key "a.b.c" wins over a key "a" at the site
// a.b.c, and reports the matched literal only when the chain's root
// identifier is unbound at the occurrence.
func (sub *substituter) lookup(scope *Scope, e Expr) (*Literal, bool) {
	path, root, ok := memberPath(e)
	if !ok || scope.declared(root) {
		return nil, false
	}

	lit, ok := sub.table[path]

	return lit, ok
}

// expr rewrites one expression position, returning the (possibly replaced)
// node.
func (sub *substituter) expr(scope *Scope, e Expr) Expr {
	if e == nil {
		return nil
	}

	if lit, ok := sub.lookup(scope, e); ok {
		sub.count++

		return lit.Clone()
	}

	switch x := e.(type) {
	case *Member:
		// The full chain did not match a key. Only the chain's root
		// remains a candidate: an intermediate dotted chain is not an
		// exact full path, so it is never a lookup site.
		x.Obj = sub.chainObj(scope, x.Obj)

	case *Index:
		x.Obj = sub.expr(scope, x.Obj)
		x.Key = sub.expr(scope, x.Key)

	case *Call:
		x.Callee = sub.expr(scope, x.Callee)

		for i, a := range x.Args {
			x.Args[i] = sub.expr(scope, a)
		}

	case *Unary:
		x.X = sub.expr(scope, x.X)

	case *Update:
		// The operand is written to; leave it alone.

	case *Binary:
		x.L = sub.expr(scope, x.L)
		x.R = sub.expr(scope, x.R)

	case *Logical:
		x.L = sub.expr(scope, x.L)
		x.R = sub.expr(scope, x.R)

	case *CondExpr:
		x.Test = sub.expr(scope, x.Test)
		x.Then = sub.expr(scope, x.Then)
		x.Else = sub.expr(scope, x.Else)

	case *Assign:
		// Only the value side reads; the target is a write.
		x.Value = sub.expr(scope, x.Value)

		if idx, ok := x.Target.(*Index); ok {
			idx.Key = sub.expr(scope, idx.Key)
		}

	case *ArrayLit:
		for i, el := range x.Elems {
			x.Elems[i] = sub.expr(scope, el)
		}

	case *ObjectLit:
		for _, p := range x.Props {
			p.Value = sub.expr(scope, p.Value)
		}

	case *FuncLit:
		inner := enterFunc(scope, x.Name, x.Params, x.Body)
		for _, s := range x.Body.Body {
			sub.stmt(inner, s)
		}
	}

	return e
}

// chainObj rewrites the object of a member access whose full chain missed
// the table. Nested *Member objects descend without retrying the table,
// keeping dotted prefixes unmatchable; any other object is an ordinary
// expression position, so a bare root identifier can still be replaced.
func (sub *substituter) chainObj(scope *Scope, e Expr) Expr {
	if m, ok := e.(*Member); ok {
		m.Obj = sub.chainObj(scope, m.Obj)

		return m
	}

	return sub.expr(scope, e)
}

// stmt rewrites the expression positions of one statement.
func (sub *substituter) stmt(scope *Scope, s Stmt) {
	switch x := s.(type) {
	case *BlockStmt:
		inner := enterBlock(scope, x.Body)
		for _, stmt := range x.Body {
			sub.stmt(inner, stmt)
		}

	case *VarStmt:
		for _, d := range x.Decls {
			d.Init = sub.expr(scope, d.Init)
		}

	case *FuncDecl:
		inner := enterFunc(scope, x.Name, x.Params, x.Body)
		for _, stmt := range x.Body.Body {
			sub.stmt(inner, stmt)
		}

	case *IfStmt:
		x.Cond = sub.expr(scope, x.Cond)
		sub.stmt(scope, x.Then)

		if x.Else != nil {
			sub.stmt(scope, x.Else)
		}

	case *WhileStmt:
		x.Cond = sub.expr(scope, x.Cond)
		sub.stmt(scope, x.Body)

	case *ForStmt:
		inner := newScope(scope, scopeBlock)

		if vs, ok := x.Init.(*VarStmt); ok && vs.Keyword != "var" {
			for _, d := range vs.Decls {
				inner.declare(d.Name)
			}
		}

		if x.Init != nil {
			sub.stmt(inner, x.Init)
		}

		x.Cond = sub.expr(inner, x.Cond)
		x.Post = sub.expr(inner, x.Post)
		sub.stmt(inner, x.Body)

	case *ReturnStmt:
		x.Arg = sub.expr(scope, x.Arg)

	case *ExprStmt:
		x.X = sub.expr(scope, x.X)
	}
}
