// Package evaluator walks the AST against a lexical environment,
// producing Values and propagating RuntimeEvents per SPEC_FULL.md §4.5.
package evaluator

import (
	"io"
	"math"

	"github.com/qewer33/queitite/internal/ast"
	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// Evaluator is the tree-walker proper. It holds no state of its own
// beyond the output stream and the current environment chain; all
// script state lives in runtime.Environment frames and runtime.Value
// cells.
type Evaluator struct {
	Globals *runtime.Environment
	Stdout  io.Writer
	Stdin   io.Reader
}

// New creates an Evaluator whose root frame is globals (typically the
// native registry built by internal/natives).
func New(globals *runtime.Environment, stdout io.Writer, stdin io.Reader) *Evaluator {
	return &Evaluator{Globals: globals, Stdout: stdout, Stdin: stdin}
}

// Run evaluates every top-level statement in prog against the global
// environment. It returns the first unhandled RuntimeEvent (Err or
// UserErr) reaching the top level, or nil on success.
func (e *Evaluator) Run(prog *ast.Program) *runtime.RuntimeEvent {
	env := e.Globals
	for _, stmt := range prog.Statements {
		_, event := e.evalStatement(stmt, env)
		if event != nil {
			// Return/Break/Continue at the top level are user errors,
			// not evaluator bugs: surface them as Err{Value}.
			switch event.Kind {
			case runtime.EventReturn:
				return runtime.NewErr(runtime.ValueErr, stmt.Pos(), "return outside function")
			case runtime.EventBreak, runtime.EventContinue:
				return runtime.NewErr(runtime.ValueErr, stmt.Pos(), "break/continue outside loop")
			default:
				return event
			}
		}
	}
	return nil
}

// CallFunction implements runtime.Evaluator: it invokes a UserFunction
// (or BoundMethod) body in a fresh child of its closure environment,
// binding parameters, and unwraps a Return event into its payload
// (§4.3: "absent return yields Null").
func (e *Evaluator) CallFunction(fn *runtime.UserFunction, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
	if len(args) != len(fn.Params) {
		return nil, runtime.NewErr(runtime.ArityErr, cursor, "expected %d argument(s), found %d", len(fn.Params), len(args))
	}
	callEnv := runtime.NewEnclosedEnvironment(fn.Closure)
	if fn.This != nil {
		callEnv.Define("this", fn.This)
	}
	for i, p := range fn.Params {
		callEnv.Define(p, args[i])
	}
	body, ok := fn.Body.(*ast.BlockStmt)
	if !ok {
		return nil, runtime.NewErr(runtime.NativeErr, cursor, "malformed function body")
	}
	_, event := e.evalBlock(body, callEnv)
	if event == nil {
		return runtime.NullValue, nil
	}
	if event.Kind == runtime.EventReturn {
		return event.ReturnValue, nil
	}
	return nil, event
}

// ---- statement evaluation ----

func (e *Evaluator) evalStatement(stmt ast.Statement, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		return e.evalExpression(s.Expr, env)
	case *ast.BlockStmt:
		return e.evalBlock(s, runtime.NewEnclosedEnvironment(env))
	case *ast.FunctionDecl:
		return e.evalFunctionDecl(s, env)
	case *ast.ObjectDecl:
		return e.evalObjectDecl(s, env)
	case *ast.IfStmt:
		return e.evalIf(s, env)
	case *ast.WhileStmt:
		return e.evalWhile(s, env)
	case *ast.ForStmt:
		return e.evalFor(s, env)
	case *ast.ReturnStmt:
		return e.evalReturn(s, env)
	case *ast.ThrowStmt:
		return e.evalThrow(s, env)
	case *ast.BreakStmt:
		return nil, runtime.BreakEvent
	case *ast.ContinueStmt:
		return nil, runtime.ContinueEvent
	default:
		return nil, runtime.NewErr(runtime.NativeErr, stmt.Pos(), "unhandled statement type %T", stmt)
	}
}

func (e *Evaluator) evalBlock(block *ast.BlockStmt, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	var result runtime.Value = runtime.NullValue
	for _, stmt := range block.Statements {
		v, event := e.evalStatement(stmt, env)
		if event != nil {
			return nil, event
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalFunctionDecl(decl *ast.FunctionDecl, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	fn := e.makeFunction(decl.Function, env)
	env.Define(decl.Function.Name, runtime.CallableValue{Callable: fn})
	return runtime.NullValue, nil
}

func (e *Evaluator) makeFunction(lit *ast.FunctionLiteral, env *runtime.Environment) *runtime.UserFunction {
	params := make([]string, len(lit.Parameters))
	for i, p := range lit.Parameters {
		params[i] = p.Value
	}
	return &runtime.UserFunction{FnName: lit.Name, Params: params, Body: lit.Body, Closure: env}
}

func (e *Evaluator) evalObjectDecl(decl *ast.ObjectDecl, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	methods := make(map[string]runtime.Callable, len(decl.Methods))
	for _, m := range decl.Methods {
		methods[m.Function.Name] = e.makeFunction(m.Function, env)
	}
	obj := runtime.NewObj(decl.Name, methods)
	env.Define(decl.Name, obj)
	return runtime.NullValue, nil
}

func (e *Evaluator) evalIf(s *ast.IfStmt, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	cond, event := e.evalExpression(s.Condition, env)
	if event != nil {
		return nil, event
	}
	if runtime.IsTruthy(cond) {
		return e.evalBlock(s.Then, runtime.NewEnclosedEnvironment(env))
	}
	if s.Else != nil {
		return e.evalBlock(s.Else, runtime.NewEnclosedEnvironment(env))
	}
	return runtime.NullValue, nil
}

func (e *Evaluator) evalWhile(s *ast.WhileStmt, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	for {
		cond, event := e.evalExpression(s.Condition, env)
		if event != nil {
			return nil, event
		}
		if !runtime.IsTruthy(cond) {
			return runtime.NullValue, nil
		}
		_, event = e.evalBlock(s.Body, runtime.NewEnclosedEnvironment(env))
		if event != nil {
			switch event.Kind {
			case runtime.EventBreak:
				return runtime.NullValue, nil
			case runtime.EventContinue:
				continue
			default:
				return nil, event
			}
		}
	}
}

func (e *Evaluator) evalFor(s *ast.ForStmt, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	loopEnv := runtime.NewEnclosedEnvironment(env)
	if s.Init != nil {
		if _, event := e.evalStatement(s.Init, loopEnv); event != nil {
			return nil, event
		}
	}
	for {
		if s.Condition != nil {
			cond, event := e.evalExpression(s.Condition, loopEnv)
			if event != nil {
				return nil, event
			}
			if !runtime.IsTruthy(cond) {
				return runtime.NullValue, nil
			}
		}
		_, event := e.evalBlock(s.Body, runtime.NewEnclosedEnvironment(loopEnv))
		if event != nil {
			switch event.Kind {
			case runtime.EventBreak:
				return runtime.NullValue, nil
			case runtime.EventContinue:
				// fall through to post
			default:
				return nil, event
			}
		}
		if s.Post != nil {
			if _, event := e.evalStatement(s.Post, loopEnv); event != nil {
				return nil, event
			}
		}
	}
}

func (e *Evaluator) evalReturn(s *ast.ReturnStmt, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	if s.Value == nil {
		return nil, runtime.NewReturn(runtime.NullValue)
	}
	v, event := e.evalExpression(s.Value, env)
	if event != nil {
		return nil, event
	}
	return nil, runtime.NewReturn(v)
}

func (e *Evaluator) evalThrow(s *ast.ThrowStmt, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	v, event := e.evalExpression(s.Value, env)
	if event != nil {
		return nil, event
	}
	return nil, runtime.NewUserErr(v, s.Token.Pos)
}

// ---- expression evaluation ----

func (e *Evaluator) evalExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	switch x := expr.(type) {
	case *ast.NumLiteral:
		return runtime.Num(x.Value), nil
	case *ast.StrLiteral:
		return runtime.NewStr(x.Value), nil
	case *ast.BoolLiteral:
		return runtime.Bool(x.Value), nil
	case *ast.NullLiteral:
		return runtime.NullValue, nil
	case *ast.ListLiteral:
		return e.evalListLiteral(x, env)
	case *ast.Identifier:
		return env.Get(x.Value, x.Token.Pos)
	case *ast.UnaryExpr:
		return e.evalUnary(x, env)
	case *ast.BinaryExpr:
		return e.evalBinary(x, env)
	case *ast.LogicalExpr:
		return e.evalLogical(x, env)
	case *ast.AssignExpr:
		return e.evalAssign(x, env)
	case *ast.IncrDecrExpr:
		return e.evalIncrDecr(x, env)
	case *ast.CallExpr:
		return e.evalCall(x, env)
	case *ast.PropertyExpr:
		return e.evalProperty(x, env)
	case *ast.IndexExpr:
		return e.evalIndex(x, env)
	case *ast.FunctionLiteral:
		return runtime.CallableValue{Callable: e.makeFunction(x, env)}, nil
	default:
		return nil, runtime.NewErr(runtime.NativeErr, expr.Pos(), "unhandled expression type %T", expr)
	}
}

func (e *Evaluator) evalListLiteral(x *ast.ListLiteral, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	items := make([]runtime.Value, len(x.Elements))
	for i, elExpr := range x.Elements {
		v, event := e.evalExpression(elExpr, env)
		if event != nil {
			return nil, event
		}
		items[i] = v
	}
	return runtime.NewList(items), nil
}

func (e *Evaluator) evalUnary(x *ast.UnaryExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	right, event := e.evalExpression(x.Right, env)
	if event != nil {
		return nil, event
	}
	switch x.Operator {
	case "-":
		n, ok := right.(runtime.Num)
		if !ok {
			return nil, runtime.NewErr(runtime.TypeErr, x.Token.Pos, "expected Num, found %s", right.Type())
		}
		return -n, nil
	case "!":
		return runtime.Bool(!runtime.IsTruthy(right)), nil
	default:
		return nil, runtime.NewErr(runtime.NativeErr, x.Token.Pos, "unknown unary operator %q", x.Operator)
	}
}

func (e *Evaluator) evalLogical(x *ast.LogicalExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	left, event := e.evalExpression(x.Left, env)
	if event != nil {
		return nil, event
	}
	truthy := runtime.IsTruthy(left)
	if x.Operator == "and" {
		if !truthy {
			return left, nil
		}
		return e.evalExpression(x.Right, env)
	}
	// "or"
	if truthy {
		return left, nil
	}
	return e.evalExpression(x.Right, env)
}

func (e *Evaluator) evalBinary(x *ast.BinaryExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	left, event := e.evalExpression(x.Left, env)
	if event != nil {
		return nil, event
	}
	right, event := e.evalExpression(x.Right, env)
	if event != nil {
		return nil, event
	}
	cursor := x.Token.Pos

	switch x.Operator {
	case "==":
		return runtime.Bool(runtime.IsEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.IsEqual(left, right)), nil
	case "+":
		return evalAdd(left, right, cursor)
	case "-", "*", "/", "**":
		ln, ok1 := left.(runtime.Num)
		rn, ok2 := right.(runtime.Num)
		if !ok1 || !ok2 {
			return nil, runtime.NewErr(runtime.TypeErr, cursor, "expected two Num operands, found %s and %s", left.Type(), right.Type())
		}
		return evalArith(x.Operator, ln, rn, cursor)
	case "<", "<=", ">", ">=":
		return evalCompare(x.Operator, left, right, cursor)
	default:
		return nil, runtime.NewErr(runtime.NativeErr, cursor, "unknown binary operator %q", x.Operator)
	}
}

func evalAdd(left, right runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
	switch l := left.(type) {
	case runtime.Num:
		switch r := right.(type) {
		case runtime.Num:
			return l + r, nil
		case *runtime.Str:
			return runtime.NewStr(l.String() + r.Buf), nil
		}
	case *runtime.Str:
		switch r := right.(type) {
		case *runtime.Str:
			return runtime.NewStr(l.Buf + r.Buf), nil
		case runtime.Num:
			return runtime.NewStr(l.Buf + r.String()), nil
		}
	}
	return nil, runtime.NewErr(runtime.TypeErr, cursor, "cannot add %s and %s", left.Type(), right.Type())
}

func evalArith(op string, l, r runtime.Num, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
	switch op {
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		return l / r, nil
	case "**":
		return runtime.Num(math.Pow(float64(l), float64(r))), nil
	}
	return nil, runtime.NewErr(runtime.NativeErr, cursor, "unknown arithmetic operator %q", op)
}

func evalCompare(op string, left, right runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
	switch l := left.(type) {
	case runtime.Num:
		r, ok := right.(runtime.Num)
		if !ok {
			return nil, runtime.NewErr(runtime.TypeErr, cursor, "cannot compare Num and %s", right.Type())
		}
		return runtime.Bool(compareOp(op, float64(l) < float64(r), float64(l) == float64(r), float64(l) > float64(r))), nil
	case *runtime.Str:
		r, ok := right.(*runtime.Str)
		if !ok {
			return nil, runtime.NewErr(runtime.TypeErr, cursor, "cannot compare Str and %s", right.Type())
		}
		return runtime.Bool(compareOp(op, l.Buf < r.Buf, l.Buf == r.Buf, l.Buf > r.Buf)), nil
	default:
		return nil, runtime.NewErr(runtime.TypeErr, cursor, "ordered comparison requires two Num or two Str, found %s", left.Type())
	}
}

func compareOp(op string, lt, eq, gt bool) bool {
	switch op {
	case "<":
		return lt
	case "<=":
		return lt || eq
	case ">":
		return gt
	case ">=":
		return gt || eq
	}
	return false
}

func (e *Evaluator) evalAssign(x *ast.AssignExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	value, event := e.evalExpression(x.Value, env)
	if event != nil {
		return nil, event
	}

	if x.Operator != "=" {
		current, event := e.evalExpression(x.Target, env)
		if event != nil {
			return nil, event
		}
		op := "+"
		if x.Operator == "-=" {
			op = "-"
		}
		curNum, ok1 := current.(runtime.Num)
		valNum, ok2 := value.(runtime.Num)
		if op == "+" {
			combined, event := evalAdd(current, value, x.Token.Pos)
			if event != nil {
				return nil, event
			}
			value = combined
		} else if ok1 && ok2 {
			value, _ = evalArith(op, curNum, valNum, x.Token.Pos)
		} else {
			return nil, runtime.NewErr(runtime.TypeErr, x.Token.Pos, "expected Num operands for %s", x.Operator)
		}
	}

	return e.assignTo(x.Target, value, env, x.Operator == "=")
}

// assignTo stores value into target. isDefinition is true only for a
// plain `=` assignment expression, where an unbound identifier defines
// a fresh binding in the current frame (§4.5.1's "variable definition")
// rather than raising Err{Name}; compound forms (+=, -=, ++, --) always
// require an existing binding.
func (e *Evaluator) assignTo(target ast.Expression, value runtime.Value, env *runtime.Environment, isDefinition bool) (runtime.Value, *runtime.RuntimeEvent) {
	switch t := target.(type) {
	case *ast.Identifier:
		if isDefinition && !env.Has(t.Value) {
			env.DefineOrAssign(t.Value, value)
			return value, nil
		}
		if event := env.Assign(t.Value, value, t.Token.Pos); event != nil {
			return nil, event
		}
		return value, nil
	case *ast.PropertyExpr:
		recv, event := e.evalExpression(t.Receiver, env)
		if event != nil {
			return nil, event
		}
		inst, ok := recv.(*runtime.Instance)
		if !ok {
			return nil, runtime.NewErr(runtime.TypeErr, t.Token.Pos, "cannot set property on %s", recv.Type())
		}
		inst.Set(t.Name, value)
		return value, nil
	case *ast.IndexExpr:
		recv, event := e.evalExpression(t.Receiver, env)
		if event != nil {
			return nil, event
		}
		idxVal, event := e.evalExpression(t.Index, env)
		if event != nil {
			return nil, event
		}
		list, ok := recv.(*runtime.List)
		if !ok {
			return nil, runtime.NewErr(runtime.TypeErr, t.Token.Pos, "cannot index-assign %s", recv.Type())
		}
		idx, event := indexOf(idxVal, len(list.Items), t.Token.Pos)
		if event != nil {
			return nil, event
		}
		list.Items[idx] = value
		return value, nil
	default:
		return nil, runtime.NewErr(runtime.TypeErr, target.Pos(), "invalid assignment target")
	}
}

func (e *Evaluator) evalIncrDecr(x *ast.IncrDecrExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	current, event := e.evalExpression(x.Target, env)
	if event != nil {
		return nil, event
	}
	n, ok := current.(runtime.Num)
	if !ok {
		return nil, runtime.NewErr(runtime.TypeErr, x.Token.Pos, "expected Num operand for %s", x.Operator)
	}
	var next runtime.Num
	if x.Operator == "++" {
		next = n + 1
	} else {
		next = n - 1
	}
	if _, event := e.assignTo(x.Target, next, env, false); event != nil {
		return nil, event
	}
	return n, nil // postfix: yields the pre-increment value
}

func (e *Evaluator) evalCall(x *ast.CallExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	callee, event := e.evalExpression(x.Callee, env)
	if event != nil {
		return nil, event
	}
	args := make([]runtime.Value, len(x.Arguments))
	for i, a := range x.Arguments {
		v, event := e.evalExpression(a, env)
		if event != nil {
			return nil, event
		}
		args[i] = v
	}

	switch c := callee.(type) {
	case runtime.CallableValue:
		if c.Callable.Arity() != len(args) {
			return nil, runtime.NewErr(runtime.ArityErr, x.Token.Pos, "expected %d argument(s), found %d", c.Callable.Arity(), len(args))
		}
		return c.Callable.Call(e, args, x.Token.Pos)
	case *runtime.Obj:
		if c.Arity() != len(args) {
			return nil, runtime.NewErr(runtime.ArityErr, x.Token.Pos, "expected %d argument(s), found %d", c.Arity(), len(args))
		}
		return c.Call(e, args, x.Token.Pos)
	default:
		return nil, runtime.NewErr(runtime.TypeErr, x.Token.Pos, "%s is not callable", callee.Type())
	}
}

func (e *Evaluator) evalProperty(x *ast.PropertyExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	recv, event := e.evalExpression(x.Receiver, env)
	if event != nil {
		return nil, event
	}
	switch r := recv.(type) {
	case *runtime.Instance:
		return r.Get(x.Name, x.Token.Pos)
	case *runtime.Obj:
		if m, ok := r.FindMethod(x.Name); ok {
			return runtime.CallableValue{Callable: m}, nil
		}
		return nil, runtime.NewErr(runtime.NameErr, x.Token.Pos, "undefined property '%s' on %s", x.Name, r.Name)
	default:
		return nil, runtime.NewErr(runtime.TypeErr, x.Token.Pos, "cannot access property on %s", recv.Type())
	}
}

func (e *Evaluator) evalIndex(x *ast.IndexExpr, env *runtime.Environment) (runtime.Value, *runtime.RuntimeEvent) {
	recv, event := e.evalExpression(x.Receiver, env)
	if event != nil {
		return nil, event
	}
	idxVal, event := e.evalExpression(x.Index, env)
	if event != nil {
		return nil, event
	}
	switch r := recv.(type) {
	case *runtime.List:
		idx, event := indexOf(idxVal, len(r.Items), x.Token.Pos)
		if event != nil {
			return nil, event
		}
		return r.Items[idx], nil
	case *runtime.Str:
		runes := []rune(r.Buf)
		idx, event := indexOf(idxVal, len(runes), x.Token.Pos)
		if event != nil {
			return nil, event
		}
		return runtime.NewStr(string(runes[idx])), nil
	default:
		return nil, runtime.NewErr(runtime.TypeErr, x.Token.Pos, "cannot index %s", recv.Type())
	}
}

func indexOf(idxVal runtime.Value, length int, cursor token.Cursor) (int, *runtime.RuntimeEvent) {
	n, ok := idxVal.(runtime.Num)
	if !ok {
		return 0, runtime.NewErr(runtime.TypeErr, cursor, "expected Num index, found %s", idxVal.Type())
	}
	idx := int(n)
	if idx < 0 || idx >= length {
		return 0, runtime.NewErr(runtime.ValueErr, cursor, "index %d out of range (length %d)", idx, length)
	}
	return idx, nil
}
