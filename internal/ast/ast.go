// Package ast defines the abstract syntax tree node types produced by
// the parser and consumed by the evaluator.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/qewer33/queitite/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Cursor
}

// Expression is any node that produces a Value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: a sequence of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteByte('\n')
	}
	return out.String()
}

func (p *Program) Pos() token.Cursor {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Cursor{Line: 1, Column: 1}
}

// ---- Expressions ----

// Identifier references a bound name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() token.Cursor    { return i.Token.Pos }

// NumLiteral is a numeric literal.
type NumLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumLiteral) expressionNode()      {}
func (n *NumLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumLiteral) String() string       { return n.Token.Literal }
func (n *NumLiteral) Pos() token.Cursor    { return n.Token.Pos }

// StrLiteral is a string literal.
type StrLiteral struct {
	Token token.Token
	Value string
}

func (s *StrLiteral) expressionNode()      {}
func (s *StrLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StrLiteral) String() string       { return fmt.Sprintf("%q", s.Value) }
func (s *StrLiteral) Pos() token.Cursor    { return s.Token.Pos }

// BoolLiteral is a boolean literal.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (b *BoolLiteral) expressionNode()      {}
func (b *BoolLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BoolLiteral) String() string       { return b.Token.Literal }
func (b *BoolLiteral) Pos() token.Cursor    { return b.Token.Pos }

// NullLiteral is the null literal.
type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() token.Cursor    { return n.Token.Pos }

// ListLiteral is a `[a, b, c]` expression.
type ListLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (l *ListLiteral) expressionNode()      {}
func (l *ListLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *ListLiteral) Pos() token.Cursor { return l.Token.Pos }

// UnaryExpr is a prefix unary expression: `-x`, `!x`.
type UnaryExpr struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (u *UnaryExpr) expressionNode()      {}
func (u *UnaryExpr) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpr) String() string       { return "(" + u.Operator + u.Right.String() + ")" }
func (u *UnaryExpr) Pos() token.Cursor    { return u.Token.Pos }

// BinaryExpr is an infix binary expression.
type BinaryExpr struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpr) expressionNode()      {}
func (b *BinaryExpr) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}
func (b *BinaryExpr) Pos() token.Cursor { return b.Token.Pos }

// LogicalExpr is `and`/`or` with short-circuit evaluation.
type LogicalExpr struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (l *LogicalExpr) expressionNode()      {}
func (l *LogicalExpr) TokenLiteral() string { return l.Token.Literal }
func (l *LogicalExpr) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}
func (l *LogicalExpr) Pos() token.Cursor { return l.Token.Pos }

// AssignExpr assigns to an identifier, property, or index target and
// evaluates to the assigned value.
type AssignExpr struct {
	Token    token.Token
	Target   Expression // *Identifier, *PropertyExpr, or *IndexExpr
	Operator string     // "=", "+=", "-="
	Value    Expression
}

func (a *AssignExpr) expressionNode()      {}
func (a *AssignExpr) TokenLiteral() string { return a.Token.Literal }
func (a *AssignExpr) String() string {
	return a.Target.String() + " " + a.Operator + " " + a.Value.String()
}
func (a *AssignExpr) Pos() token.Cursor { return a.Token.Pos }

// IncrDecrExpr is a postfix `x++` / `x--`.
type IncrDecrExpr struct {
	Token    token.Token
	Target   Expression
	Operator string
}

func (e *IncrDecrExpr) expressionNode()      {}
func (e *IncrDecrExpr) TokenLiteral() string { return e.Token.Literal }
func (e *IncrDecrExpr) String() string       { return e.Target.String() + e.Operator }
func (e *IncrDecrExpr) Pos() token.Cursor    { return e.Token.Pos }

// CallExpr is a function/method call.
type CallExpr struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (c *CallExpr) Pos() token.Cursor { return c.Token.Pos }

// PropertyExpr is a `.` member access.
type PropertyExpr struct {
	Token    token.Token
	Receiver Expression
	Name     string
}

func (p *PropertyExpr) expressionNode()      {}
func (p *PropertyExpr) TokenLiteral() string { return p.Token.Literal }
func (p *PropertyExpr) String() string       { return p.Receiver.String() + "." + p.Name }
func (p *PropertyExpr) Pos() token.Cursor    { return p.Token.Pos }

// IndexExpr is a `[]` index access.
type IndexExpr struct {
	Token    token.Token
	Receiver Expression
	Index    Expression
}

func (ix *IndexExpr) expressionNode()      {}
func (ix *IndexExpr) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpr) String() string       { return ix.Receiver.String() + "[" + ix.Index.String() + "]" }
func (ix *IndexExpr) Pos() token.Cursor    { return ix.Token.Pos }

// FunctionLiteral is the body-bearing part of a function or method
// definition: `(params) = do ... end`.
type FunctionLiteral struct {
	Token      token.Token
	Name       string
	Parameters []*Identifier
	Body       *BlockStmt
}

func (f *FunctionLiteral) expressionNode()      {}
func (f *FunctionLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionLiteral) String() string {
	parts := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		parts[i] = p.Value
	}
	return f.Name + "(" + strings.Join(parts, ", ") + ") = " + f.Body.String()
}
func (f *FunctionLiteral) Pos() token.Cursor { return f.Token.Pos }

// ---- Statements ----

// ExpressionStmt wraps an expression evaluated for effect.
type ExpressionStmt struct {
	Token token.Token
	Expr  Expression
}

func (e *ExpressionStmt) statementNode()     {}
func (e *ExpressionStmt) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStmt) String() string     { return e.Expr.String() }
func (e *ExpressionStmt) Pos() token.Cursor  { return e.Token.Pos }

// BlockStmt is a `do ... end` sequence of statements.
type BlockStmt struct {
	Token      token.Token
	Statements []Statement
}

func (b *BlockStmt) statementNode()     {}
func (b *BlockStmt) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStmt) String() string {
	var out bytes.Buffer
	out.WriteString("do\n")
	for _, s := range b.Statements {
		out.WriteString("  " + s.String() + "\n")
	}
	out.WriteString("end")
	return out.String()
}
func (b *BlockStmt) Pos() token.Cursor { return b.Token.Pos }

// FunctionDecl binds a FunctionLiteral to its name in the enclosing
// scope: `name(params) = do ... end`.
type FunctionDecl struct {
	Token    token.Token
	Function *FunctionLiteral
}

func (f *FunctionDecl) statementNode()     {}
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) String() string     { return f.Function.String() }
func (f *FunctionDecl) Pos() token.Cursor  { return f.Token.Pos }

// ObjectDecl defines a user object type: `object Name(params) = do ... end`.
// Methods (including `init`) are FunctionDecl statements inside the body;
// the constructor parameters are informational (the `init` method, if
// present, carries the real parameter binding per §4.4).
type ObjectDecl struct {
	Token      token.Token
	Name       string
	Parameters []*Identifier
	Methods    []*FunctionDecl
}

func (o *ObjectDecl) statementNode()     {}
func (o *ObjectDecl) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectDecl) String() string     { return "object " + o.Name + " = do ... end" }
func (o *ObjectDecl) Pos() token.Cursor  { return o.Token.Pos }

// IfStmt is `if cond then-block [else else-block]`.
type IfStmt struct {
	Token     token.Token
	Condition Expression
	Then      *BlockStmt
	Else      *BlockStmt
}

func (i *IfStmt) statementNode()     {}
func (i *IfStmt) TokenLiteral() string { return i.Token.Literal }
func (i *IfStmt) String() string {
	s := "if " + i.Condition.String() + " " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}
func (i *IfStmt) Pos() token.Cursor { return i.Token.Pos }

// WhileStmt is `while cond do ... end`.
type WhileStmt struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStmt
}

func (w *WhileStmt) statementNode()     {}
func (w *WhileStmt) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStmt) String() string     { return "while " + w.Condition.String() + " " + w.Body.String() }
func (w *WhileStmt) Pos() token.Cursor  { return w.Token.Pos }

// ForStmt is a C-style `for init; cond; post do ... end`. Any clause may
// be nil.
type ForStmt struct {
	Token     token.Token
	Init      Statement
	Condition Expression
	Post      Statement
	Body      *BlockStmt
}

func (f *ForStmt) statementNode()     {}
func (f *ForStmt) TokenLiteral() string { return f.Token.Literal }
func (f *ForStmt) String() string     { return "for ... " + f.Body.String() }
func (f *ForStmt) Pos() token.Cursor  { return f.Token.Pos }

// ReturnStmt is `return expr` or its `yeet` synonym.
type ReturnStmt struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (r *ReturnStmt) statementNode()     {}
func (r *ReturnStmt) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return r.Token.Literal
	}
	return r.Token.Literal + " " + r.Value.String()
}
func (r *ReturnStmt) Pos() token.Cursor { return r.Token.Pos }

// ThrowStmt is `throw expr`, raising a UserErr directly.
type ThrowStmt struct {
	Token token.Token
	Value Expression
}

func (t *ThrowStmt) statementNode()     {}
func (t *ThrowStmt) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStmt) String() string     { return "throw " + t.Value.String() }
func (t *ThrowStmt) Pos() token.Cursor  { return t.Token.Pos }

// BreakStmt is `break`.
type BreakStmt struct{ Token token.Token }

func (b *BreakStmt) statementNode()     {}
func (b *BreakStmt) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStmt) String() string     { return "break" }
func (b *BreakStmt) Pos() token.Cursor  { return b.Token.Pos }

// ContinueStmt is `continue`.
type ContinueStmt struct{ Token token.Token }

func (c *ContinueStmt) statementNode()     {}
func (c *ContinueStmt) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStmt) String() string     { return "continue" }
func (c *ContinueStmt) Pos() token.Cursor  { return c.Token.Pos }
