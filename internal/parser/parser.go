// Package parser builds an AST from a Queitite token stream using a
// Pratt (precedence-climbing) expression parser over a hand-written
// recursive-descent statement grammar.
package parser

import (
	"fmt"

	"github.com/qewer33/queitite/internal/ast"
	"github.com/qewer33/queitite/internal/lexer"
	"github.com/qewer33/queitite/internal/token"
)

// ParseError is a single parse failure, with enough context for the
// diagnostics reporter to render a caret under the offending column.
type ParseError struct {
	Message string
	Pos     token.Cursor
	Note    string
}

func (e *ParseError) Error() string {
	if e.Note != "" {
		return fmt.Sprintf("%s at %s (%s)", e.Message, e.Pos, e.Note)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// Parser consumes the full token slice produced by the lexer and
// produces a *ast.Program. The whole input is tokenized upfront (rather
// than streamed) so the parser can freely backtrack when disambiguating
// a function declaration header from a call or assignment (object
// declarations start with the `object` keyword and need no backtracking).
type Parser struct {
	tokens []token.Token
	pos    int
	errors []*ParseError
}

// New tokenizes src and returns a Parser ready to parse it.
func New(src string) *Parser {
	toks := lexer.New(src).Tokenize()
	return &Parser{tokens: toks}
}

// Errors returns every parse error accumulated during ParseProgram.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) cur() token.Token  { return p.tokens[p.pos] }
func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}
func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}
func (p *Parser) at(tt token.Type) bool { return p.cur().Type == tt }
func (p *Parser) expect(tt token.Type) (token.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.errorf(p.cur().Pos, "expected %s, found %s", tt, p.cur().Type)
	return p.cur(), false
}

func (p *Parser) errorf(pos token.Cursor, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// skipSeparators consumes stray `;`/EOL-ish separators between statements.
// The lexer does not emit a dedicated newline token (newlines are
// whitespace), so this only skips `;`.
func (p *Parser) skipSeparators() {
	for p.at(token.SEMI) {
		p.advance()
	}
}

// ParseProgram parses the whole token stream.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		p.skipSeparators()
		if p.at(token.EOF) {
			break
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipSeparators()
	}
	return prog
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	doTok, _ := p.expect(token.DO)
	block := &ast.BlockStmt{Token: doTok}
	for !p.at(token.END) && !p.at(token.EOF) {
		p.skipSeparators()
		if p.at(token.END) {
			break
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipSeparators()
	}
	p.expect(token.END)
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.OBJECT:
		return p.parseObjectDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN, token.YEET:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.BREAK:
		tok := p.advance()
		return &ast.BreakStmt{Token: tok}
	case token.CONTINUE:
		tok := p.advance()
		return &ast.ContinueStmt{Token: tok}
	case token.IDENT:
		if decl, ok := p.tryParseFunctionDecl(); ok {
			return decl
		}
	}
	return p.parseExpressionStatement()
}

// tryParseFunctionDecl recognizes `name(params) = do ... end` by
// scanning ahead from the current position; it backtracks and returns
// ok=false if the lookahead does not match, leaving the cursor
// untouched so the caller can fall back to a plain expression
// statement (covers the `name(args)` *call* statement case too).
func (p *Parser) tryParseFunctionDecl() (*ast.FunctionDecl, bool) {
	start := p.pos
	nameTok := p.cur()
	if !p.at(token.IDENT) || p.peek(1).Type != token.LPAREN {
		return nil, false
	}
	p.advance() // name
	p.advance() // (

	var params []*ast.Identifier
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.IDENT) {
			params = append(params, &ast.Identifier{Token: p.cur(), Value: p.cur().Literal})
			p.advance()
		} else {
			p.pos = start
			return nil, false
		}
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	if !p.at(token.RPAREN) {
		p.pos = start
		return nil, false
	}
	p.advance() // )

	if !p.at(token.ASSIGN) || p.peek(1).Type != token.DO {
		p.pos = start
		return nil, false
	}
	p.advance() // =

	body := p.parseBlock()
	fn := &ast.FunctionLiteral{Token: nameTok, Name: nameTok.Literal, Parameters: params, Body: body}
	return &ast.FunctionDecl{Token: nameTok, Function: fn}, true
}

func (p *Parser) parseObjectDecl() *ast.ObjectDecl {
	objTok := p.advance() // object
	nameTok, _ := p.expect(token.IDENT)
	decl := &ast.ObjectDecl{Token: objTok, Name: nameTok.Literal}

	if p.at(token.LPAREN) {
		p.advance()
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			if p.at(token.IDENT) {
				decl.Parameters = append(decl.Parameters, &ast.Identifier{Token: p.cur(), Value: p.cur().Literal})
				p.advance()
			}
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	}
	p.expect(token.ASSIGN)
	body := p.parseBlock()
	for _, stmt := range body.Statements {
		if fd, ok := stmt.(*ast.FunctionDecl); ok {
			decl.Methods = append(decl.Methods, fd)
		}
	}
	return decl
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.advance()
	cond := p.parseExpression(lowest)
	then := p.parseBlock()
	stmt := &ast.IfStmt{Token: tok, Condition: cond, Then: then}
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			elseIf := p.parseIf()
			stmt.Else = &ast.BlockStmt{
				Token:      token.Token{Type: token.DO, Literal: "do", Pos: elseIf.Pos()},
				Statements: []ast.Statement{elseIf},
			}
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.advance()
	cond := p.parseExpression(lowest)
	body := p.parseBlock()
	return &ast.WhileStmt{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.advance()
	stmt := &ast.ForStmt{Token: tok}
	if !p.at(token.SEMI) {
		stmt.Init = p.parseExpressionStatement()
	}
	p.expect(token.SEMI)
	if !p.at(token.SEMI) {
		stmt.Condition = p.parseExpression(lowest)
	}
	p.expect(token.SEMI)
	if !p.at(token.DO) {
		stmt.Post = p.parseExpressionStatement()
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.advance()
	r := &ast.ReturnStmt{Token: tok}
	if !p.atStatementEnd() {
		r.Value = p.parseExpression(lowest)
	}
	return r
}

func (p *Parser) parseThrow() ast.Statement {
	tok := p.advance()
	return &ast.ThrowStmt{Token: tok, Value: p.parseExpression(lowest)}
}

func (p *Parser) atStatementEnd() bool {
	switch p.cur().Type {
	case token.SEMI, token.END, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(lowest)
	return &ast.ExpressionStmt{Token: tok, Expr: expr}
}

// ---- Pratt expression parsing ----

type precedence int

const (
	lowest precedence = iota
	assignP
	orP
	andP
	equalsP
	compareP
	addP
	mulP
	powP
	unaryP
	postfixP
)

var precedences = map[token.Type]precedence{
	token.ASSIGN: assignP, token.ADD_ASSIGN: assignP, token.SUB_ASSIGN: assignP,
	token.OR: orP, token.AND: andP,
	token.EQ: equalsP, token.NEQ: equalsP,
	token.LT: compareP, token.LTE: compareP, token.GT: compareP, token.GTE: compareP,
	token.ADD: addP, token.SUB: addP,
	token.MUL: mulP, token.DIV: mulP,
	token.POW: powP,
	token.LPAREN: postfixP, token.DOT: postfixP, token.LBRACKET: postfixP,
	token.INCR: postfixP, token.DECR: postfixP,
}

func (p *Parser) peekPrecedence() precedence {
	if pr, ok := precedences[p.cur().Type]; ok {
		return pr
	}
	return lowest
}

func (p *Parser) parseExpression(min precedence) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return left
	}
	for !p.atStatementEnd() && min < p.peekPrecedence() {
		switch p.cur().Type {
		case token.LPAREN:
			left = p.parseCall(left)
		case token.DOT:
			left = p.parseProperty(left)
		case token.LBRACKET:
			left = p.parseIndex(left)
		case token.INCR, token.DECR:
			tok := p.advance()
			left = &ast.IncrDecrExpr{Token: tok, Target: left, Operator: tok.Literal}
		case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN:
			left = p.parseAssign(left)
		default:
			left = p.parseInfix(left)
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.NUM:
		p.advance()
		var v float64
		fmt.Sscanf(tok.Literal, "%g", &v)
		return &ast.NumLiteral{Token: tok, Value: v}
	case token.STRING:
		p.advance()
		return &ast.StrLiteral{Token: tok, Value: tok.Literal}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Value: tok.Type == token.TRUE}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{Token: tok}
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression(lowest)
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.SUB, token.NOT:
		p.advance()
		right := p.parseExpression(unaryP)
		return &ast.UnaryExpr{Token: tok, Operator: tok.Literal, Right: right}
	default:
		p.errorf(tok.Pos, "unexpected token %s", tok.Type)
		p.advance()
		return nil
	}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.advance() // [
	lit := &ast.ListLiteral{Token: tok}
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(lowest))
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return lit
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.advance()
	pr := precedences[tok.Type]
	var right ast.Expression
	if tok.Type == token.POW {
		right = p.parseExpression(pr - 1) // right-associative
	} else {
		right = p.parseExpression(pr)
	}
	if tok.Type == token.AND || tok.Type == token.OR {
		return &ast.LogicalExpr{Token: tok, Left: left, Operator: tok.Literal, Right: right}
	}
	return &ast.BinaryExpr{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseAssign(left ast.Expression) ast.Expression {
	tok := p.advance()
	value := p.parseExpression(assignP - 1) // right-associative
	return &ast.AssignExpr{Token: tok, Target: left, Operator: tok.Literal, Value: value}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.advance() // (
	call := &ast.CallExpr{Token: tok, Callee: callee}
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		call.Arguments = append(call.Arguments, p.parseExpression(lowest))
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseProperty(receiver ast.Expression) ast.Expression {
	tok := p.advance() // .
	name, _ := p.expect(token.IDENT)
	return &ast.PropertyExpr{Token: tok, Receiver: receiver, Name: name.Literal}
}

func (p *Parser) parseIndex(receiver ast.Expression) ast.Expression {
	tok := p.advance() // [
	idx := p.parseExpression(lowest)
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Token: tok, Receiver: receiver, Index: idx}
}
