package lang

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the syntax tree to w, one node per
// line. The layout is for inspection only and is not parseable.
func Fprint(w io.Writer, prog *Program) error {
	p := &printer{w: w}

	p.node(0, "Program")

	for _, s := range prog.Body {
		p.printStmt(1, s)
	}

	return p.err
}

// printer writes tree lines, remembering the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) node(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}

	_, p.err = fmt.Fprintf(
		p.w, "%s%s\n", strings.Repeat("  ", depth),
		fmt.Sprintf(format, args...),
	)
}

func (p *printer) printStmt(depth int, s Stmt) {
	switch x := s.(type) {
	case *BlockStmt:
		p.node(depth, "Block")

		for _, inner := range x.Body {
			p.printStmt(depth+1, inner)
		}

	case *VarStmt:
		p.node(depth, "Decl %s", x.Keyword)

		for _, d := range x.Decls {
			p.node(depth+1, "Name %s", d.Name)

			if d.Init != nil {
				p.printExpr(depth+2, d.Init)
			}
		}

	case *FuncDecl:
		p.node(depth, "Function %s(%s)", x.Name, strings.Join(x.Params, ", "))
		p.printStmt(depth+1, x.Body)

	case *IfStmt:
		p.node(depth, "If")
		p.printExpr(depth+1, x.Cond)
		p.printStmt(depth+1, x.Then)

		if x.Else != nil {
			p.node(depth, "Else")
			p.printStmt(depth+1, x.Else)
		}

	case *WhileStmt:
		p.node(depth, "While")
		p.printExpr(depth+1, x.Cond)
		p.printStmt(depth+1, x.Body)

	case *ForStmt:
		p.node(depth, "For")

		if x.Init != nil {
			p.printStmt(depth+1, x.Init)
		}

		if x.Cond != nil {
			p.printExpr(depth+1, x.Cond)
		}

		if x.Post != nil {
			p.printExpr(depth+1, x.Post)
		}

		p.printStmt(depth+1, x.Body)

	case *ReturnStmt:
		p.node(depth, "Return")

		if x.Arg != nil {
			p.printExpr(depth+1, x.Arg)
		}

	case *BreakStmt:
		p.node(depth, "Break")

	case *ContinueStmt:
		p.node(depth, "Continue")

	case *ExprStmt:
		p.node(depth, "ExprStmt")
		p.printExpr(depth+1, x.X)

	case *EmptyStmt:
		p.node(depth, "Empty")
	}
}

func (p *printer) printExpr(depth int, e Expr) {
	switch x := e.(type) {
	case *Literal:
		switch x.Kind {
		case LitString:
			p.node(depth, "Literal %s %s", x.Kind, Quote(x.Str))
		case LitNumber:
			p.node(depth, "Literal %s %s", x.Kind, formatNumber(x.Num))
		case LitBool:
			p.node(depth, "Literal %s %t", x.Kind, x.Bool)
		default:
			p.node(depth, "Literal %s", x.Kind)
		}

	case *Ident:
		p.node(depth, "Ident %s", x.Name)

	case *Member:
		p.node(depth, "Member .%s", x.Prop)
		p.printExpr(depth+1, x.Obj)

	case *Index:
		p.node(depth, "Index")
		p.printExpr(depth+1, x.Obj)
		p.printExpr(depth+1, x.Key)

	case *Call:
		p.node(depth, "Call")
		p.printExpr(depth+1, x.Callee)

		for _, a := range x.Args {
			p.printExpr(depth+1, a)
		}

	case *Unary:
		p.node(depth, "Unary %s", x.Op)
		p.printExpr(depth+1, x.X)

	case *Update:
		pos := "postfix"
		if x.Prefix {
			pos = "prefix"
		}

		p.node(depth, "Update %s %s", x.Op, pos)
		p.printExpr(depth+1, x.X)

	case *Binary:
		p.node(depth, "Binary %s", x.Op)
		p.printExpr(depth+1, x.L)
		p.printExpr(depth+1, x.R)

	case *Logical:
		p.node(depth, "Logical %s", x.Op)
		p.printExpr(depth+1, x.L)
		p.printExpr(depth+1, x.R)

	case *CondExpr:
		p.node(depth, "Cond")
		p.printExpr(depth+1, x.Test)
		p.printExpr(depth+1, x.Then)
		p.printExpr(depth+1, x.Else)

	case *Assign:
		p.node(depth, "Assign %s", x.Op)
		p.printExpr(depth+1, x.Target)
		p.printExpr(depth+1, x.Value)

	case *ArrayLit:
		p.node(depth, "Array")

		for _, el := range x.Elems {
			p.printExpr(depth+1, el)
		}

	case *ObjectLit:
		p.node(depth, "Object")

		for _, prop := range x.Props {
			p.node(depth+1, "Property %s", prop.Key)
			p.printExpr(depth+2, prop.Value)
		}

	case *FuncLit:
		p.node(depth, "FuncLit %s(%s)", x.Name, strings.Join(x.Params, ", "))
		p.printStmt(depth+1, x.Body)
	}
}
