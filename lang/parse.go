package lang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
)

// ParseString parses a source unit and returns its syntax tree.
// Options can be provided to customize pipeline behavior; only the logger
// affects parsing.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(source)),
	)

	prog, err := parse(source)

	// If it's a ParseError, attach the source input for better error messages
	pe := &ParseError{}
	if errors.As(err, &pe) {
		pe.Source = source
	}

	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("top_level_statements", len(prog.Body)),
	)

	return prog, nil
}

// parse is the internal parsing implementation.
func parse(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}

	prog := &Program{}

	for !p.at(EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, stmt)
	}

	return prog, nil
}

// parser consumes a token stream produced by Tokenize.
type parser struct {
	tokens []Token
	pos    int
}

// cur returns the current token without consuming it.
func (p *parser) cur() Token { return p.tokens[p.pos] }

// at reports whether the current token has the given type.
func (p *parser) at(t TokenType) bool { return p.cur().Type == t }

// next consumes and returns the current token.
func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}

	return tok
}

// accept consumes the current token if it has the given type.
func (p *parser) accept(t TokenType) bool {
	if p.at(t) {
		p.pos++

		return true
	}

	return false
}

// expect consumes a token of the given type or fails with a positioned
// parse error.
func (p *parser) expect(t TokenType) (Token, error) {
	if p.at(t) {
		return p.next(), nil
	}

	return Token{}, p.errExpected(t.String())
}

// errExpected constructs a parse error at the current token.
func (p *parser) errExpected(want string) *ParseError {
	tok := p.cur()

	found := tok.Type.String()
	if tok.Type != EOF && tok.Lexeme != "" {
		found = strconv.Quote(tok.Lexeme)
	}

	return newParseErrorAt(
		tok.Line, tok.Col,
		"unexpected "+found+", expected "+want,
	)
}

// terminate consumes a statement-terminating semicolon. The semicolon may
// be omitted before a closing brace, at end of input, or at a line break;
// two statements on one line with nothing between them are an error.
func (p *parser) terminate() error {
	if p.accept(SEMI) || p.at(RBRACE) || p.at(EOF) {
		return nil
	}

	if p.pos > 0 && p.cur().Line > p.tokens[p.pos-1].Line {
		return nil
	}

	return p.errExpected(SEMI.String())
}

// parseStmt parses one statement.
func (p *parser) parseStmt() (Stmt, error) {
	switch p.cur().Type {
	case LBRACE:
		return p.parseBlock()

	case VAR, LET, CONST:
		stmt, err := p.parseVarStmt()
		if err != nil {
			return nil, err
		}

		if err := p.terminate(); err != nil {
			return nil, err
		}

		return stmt, nil

	case FUNCTION:
		return p.parseFuncDecl()

	case IF:
		return p.parseIf()

	case WHILE:
		return p.parseWhile()

	case FOR:
		return p.parseFor()

	case RETURN:
		p.next()

		stmt := &ReturnStmt{}

		if !p.at(SEMI) && !p.at(RBRACE) && !p.at(EOF) {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			stmt.Arg = arg
		}

		if err := p.terminate(); err != nil {
			return nil, err
		}

		return stmt, nil

	case BREAK:
		p.next()

		if err := p.terminate(); err != nil {
			return nil, err
		}

		return &BreakStmt{}, nil

	case CONTINUE:
		p.next()

		if err := p.terminate(); err != nil {
			return nil, err
		}

		return &ContinueStmt{}, nil

	case SEMI:
		p.next()

		return &EmptyStmt{}, nil

	default:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.terminate(); err != nil {
			return nil, err
		}

		return &ExprStmt{X: x}, nil
	}
}

// parseBlock parses a braced statement list.
func (p *parser) parseBlock() (*BlockStmt, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}

	block := &BlockStmt{}

	for !p.at(RBRACE) {
		if p.at(EOF) {
			return nil, p.errExpected("}")
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		block.Body = append(block.Body, stmt)
	}

	p.next() // }

	return block, nil
}

// parseVarStmt parses a var, let, or const declaration statement.
func (p *parser) parseVarStmt() (*VarStmt, error) {
	keyword := p.next()

	stmt := &VarStmt{Keyword: keyword.Lexeme}

	for {
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}

		decl := &VarDecl{Name: name.Lexeme}

		if p.accept(ASSIGN) {
			init, err := p.parseAssign()
			if err != nil {
				return nil, err
			}

			decl.Init = init
		}

		stmt.Decls = append(stmt.Decls, decl)

		if !p.accept(COMMA) {
			return stmt, nil
		}
	}
}

// parseFuncDecl parses a function declaration statement.
func (p *parser) parseFuncDecl() (*FuncDecl, error) {
	p.next() // function

	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{Name: name.Lexeme, Params: params, Body: body}, nil
}

// parseParams parses a parenthesized parameter name list.
func (p *parser) parseParams() ([]string, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var params []string

	for !p.at(RPAREN) {
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}

		params = append(params, name.Lexeme)

		if !p.accept(COMMA) {
			break
		}
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	return params, nil
}

// parseIf parses an if statement with an optional else clause.
func (p *parser) parseIf() (Stmt, error) {
	p.next() // if

	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Cond: cond, Then: then}

	if p.accept(ELSE) {
		alt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmt.Else = alt
	}

	return stmt, nil
}

// parseWhile parses a while loop.
func (p *parser) parseWhile() (Stmt, error) {
	p.next() // while

	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Cond: cond, Body: body}, nil
}

// parseFor parses a C-style for loop. All three header slots are optional.
func (p *parser) parseFor() (Stmt, error) {
	p.next() // for

	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	stmt := &ForStmt{}

	if !p.at(SEMI) {
		switch p.cur().Type {
		case VAR, LET, CONST:
			init, err := p.parseVarStmt()
			if err != nil {
				return nil, err
			}

			stmt.Init = init

		default:
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			stmt.Init = &ExprStmt{X: x}
		}
	}

	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}

	if !p.at(SEMI) {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		stmt.Cond = cond
	}

	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}

	if !p.at(RPAREN) {
		post, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		stmt.Post = post
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	stmt.Body = body

	return stmt, nil
}

// parseExpr parses a full expression.
func (p *parser) parseExpr() (Expr, error) { return p.parseAssign() }

// parseAssign parses an assignment expression (right-associative).
func (p *parser) parseAssign() (Expr, error) {
	target, err := p.parseCond()
	if err != nil {
		return nil, err
	}

	switch p.cur().Type {
	case ASSIGN, PLUSEQ, MINUSEQ, STAREQ, SLASHEQ, PERCENTEQ:
		op := p.next()

		switch target.(type) {
		case *Ident, *Member, *Index:
			// assignable
		default:
			return nil, newParseErrorAt(
				op.Line, op.Col, "invalid assignment target",
			)
		}

		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}

		return &Assign{Op: op.Type, Target: target, Value: value}, nil
	}

	return target, nil
}

// parseCond parses a ternary conditional expression.
func (p *parser) parseCond() (Expr, error) {
	test, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	if !p.accept(QUESTION) {
		return test, nil
	}

	then, err := p.parseAssign()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}

	alt, err := p.parseAssign()
	if err != nil {
		return nil, err
	}

	return &CondExpr{Test: test, Then: then, Else: alt}, nil
}

// parseLogicalOr parses a || chain.
func (p *parser) parseLogicalOr() (Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}

	for p.at(LOGICALOR) {
		op := p.next()

		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}

		left = &Logical{Op: op.Type, L: left, R: right}
	}

	return left, nil
}

// parseLogicalAnd parses a && chain.
func (p *parser) parseLogicalAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	for p.at(LOGICALAND) {
		op := p.next()

		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}

		left = &Logical{Op: op.Type, L: left, R: right}
	}

	return left, nil
}

// parseEquality parses equality comparisons.
func (p *parser) parseEquality() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	for p.at(EQ) || p.at(NEQ) || p.at(STRICTEQ) || p.at(STRICTNEQ) {
		op := p.next()

		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op.Type, L: left, R: right}
	}

	return left, nil
}

// parseRelational parses ordering comparisons.
func (p *parser) parseRelational() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for p.at(LT) || p.at(LTEQ) || p.at(GT) || p.at(GTEQ) {
		op := p.next()

		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op.Type, L: left, R: right}
	}

	return left, nil
}

// parseAdditive parses + and - operations.
func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.at(PLUS) || p.at(MINUS) {
		op := p.next()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op.Type, L: left, R: right}
	}

	return left, nil
}

// parseMultiplicative parses *, /, and % operations.
func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.at(STAR) || p.at(SLASH) || p.at(PERCENT) {
		op := p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op.Type, L: left, R: right}
	}

	return left, nil
}

// parseUnary parses prefix operators.
func (p *parser) parseUnary() (Expr, error) {
	switch p.cur().Type {
	case NOT, MINUS, PLUS, TYPEOF:
		op := p.next()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: op.Type, X: x}, nil

	case INC, DEC:
		op := p.next()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Update{Op: op.Type, X: x, Prefix: true}, nil
	}

	return p.parsePostfix()
}

// parsePostfix parses postfix increment and decrement.
func (p *parser) parsePostfix() (Expr, error) {
	x, err := p.parseCallMember()
	if err != nil {
		return nil, err
	}

	if p.at(INC) || p.at(DEC) {
		op := p.next()

		return &Update{Op: op.Type, X: x}, nil
	}

	return x, nil
}

// parseCallMember parses member access, computed access, and call chains.
func (p *parser) parseCallMember() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.accept(DOT):
			prop, err := p.parsePropertyName()
			if err != nil {
				return nil, err
			}

			x = &Member{Obj: x, Prop: prop}

		case p.accept(LBRACKET):
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}

			x = &Index{Obj: x, Key: key}

		case p.at(LPAREN):
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			x = &Call{Callee: x, Args: args}

		default:
			return x, nil
		}
	}
}

// parsePropertyName parses the name after a dot. Keywords are valid
// property names in this position.
func (p *parser) parsePropertyName() (string, error) {
	tok := p.cur()

	if tok.Type == IDENT || isKeyword(tok.Type) {
		p.next()

		return tok.Lexeme, nil
	}

	return "", p.errExpected("property name")
}

// parseArgs parses a parenthesized argument list.
func (p *parser) parseArgs() ([]Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var args []Expr

	for !p.at(RPAREN) {
		arg, err := p.parseAssign()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.accept(COMMA) {
			break
		}
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	return args, nil
}

// parsePrimary parses literals, identifiers, grouping, array and object
// literals, and function expressions.
func (p *parser) parsePrimary() (Expr, error) {
	switch p.cur().Type {
	case NUMBER:
		tok := p.next()

		return &Literal{Kind: LitNumber, Num: tok.Num}, nil

	case STRING:
		tok := p.next()

		return &Literal{Kind: LitString, Str: tok.Str}, nil

	case TRUE:
		p.next()

		return &Literal{Kind: LitBool, Bool: true}, nil

	case FALSE:
		p.next()

		return &Literal{Kind: LitBool}, nil

	case NULL:
		p.next()

		return &Literal{Kind: LitNull}, nil

	case UNDEFINED:
		p.next()

		return &Literal{Kind: LitUndefined}, nil

	case IDENT:
		tok := p.next()

		return &Ident{Name: tok.Lexeme}, nil

	case LPAREN:
		p.next()

		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}

		return x, nil

	case LBRACKET:
		return p.parseArrayLit()

	case LBRACE:
		return p.parseObjectLit()

	case FUNCTION:
		return p.parseFuncLit()

	default:
		return nil, p.errExpected("expression")
	}
}

// parseArrayLit parses an array literal.
func (p *parser) parseArrayLit() (Expr, error) {
	p.next() // [

	lit := &ArrayLit{}

	for !p.at(RBRACKET) {
		el, err := p.parseAssign()
		if err != nil {
			return nil, err
		}

		lit.Elems = append(lit.Elems, el)

		if !p.accept(COMMA) {
			break
		}
	}

	if _, err := p.expect(RBRACKET); err != nil {
		return nil, err
	}

	return lit, nil
}

// parseObjectLit parses an object literal. Keys may be identifiers, string
// literals, or number literals.
func (p *parser) parseObjectLit() (Expr, error) {
	p.next() // {

	lit := &ObjectLit{}

	for !p.at(RBRACE) {
		prop := &Property{}

		switch tok := p.cur(); {
		case tok.Type == IDENT || isKeyword(tok.Type):
			p.next()

			prop.Key = tok.Lexeme

		case tok.Type == STRING:
			p.next()

			prop.Key = tok.Str
			prop.Quoted = true

		case tok.Type == NUMBER:
			p.next()

			prop.Key = tok.Lexeme

		default:
			return nil, p.errExpected("property key")
		}

		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}

		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}

		prop.Value = value
		lit.Props = append(lit.Props, prop)

		if !p.accept(COMMA) {
			break
		}
	}

	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}

	return lit, nil
}

// parseFuncLit parses a function expression with an optional name.
func (p *parser) parseFuncLit() (Expr, error) {
	p.next() // function

	lit := &FuncLit{}

	if p.at(IDENT) {
		lit.Name = p.next().Lexeme
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	lit.Params = params
	lit.Body = body

	return lit, nil
}

// isKeyword reports whether the token type is a reserved word.
func isKeyword(t TokenType) bool {
	switch t {
	case VAR, LET, CONST, FUNCTION, IF, ELSE, WHILE, FOR,
		RETURN, BREAK, CONTINUE, TYPEOF, TRUE, FALSE, NULL, UNDEFINED:
		return true
	default:
		return false
	}
}
