package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// exec evaluates one run of a program.
//
// Expression visits leave their result in value. A return statement sets
// returning, which unwinds statement lists up to the nearest call or the
// program root.
type exec struct {
	ctx       context.Context
	in        *Interpreter
	env       *Environment
	value     Value
	depth     int
	returning bool
}

func (x *exec) eval(e Expr) (Value, error) {
	if err := e.Accept(x); err != nil {
		return Null, err
	}

	return x.value, nil
}

// run executes stmts in order until one fails or returns.
func (x *exec) run(stmts []Stmt) error {
	for _, s := range stmts {
		if err := x.ctx.Err(); err != nil {
			return runtimeError(s.Pos(), err, "")
		}

		if err := s.Accept(x); err != nil {
			return err
		}

		if x.returning {
			return nil
		}
	}

	return nil
}

func (x *exec) VisitProgram(n *Program) error { return x.run(n.Body) }

func (x *exec) VisitVarDecl(n *VarDecl) error {
	v, err := x.eval(n.Init)
	if err != nil {
		return err
	}

	x.env.Define(n.Name, v)

	return nil
}

func (x *exec) VisitFuncDecl(n *FuncDecl) error {
	x.in.funcs[n.Name] = n

	x.in.logger.TraceContext(x.ctx, "function declared",
		slog.String("name", n.Name),
		slog.Int("params", len(n.Params)),
	)

	return nil
}

func (x *exec) VisitIf(n *IfStmt) error {
	test, err := x.eval(n.Test)
	if err != nil {
		return err
	}

	if test.Truthy() {
		return x.run(n.Consequent)
	}

	if n.Alternate != nil {
		return x.run(n.Alternate)
	}

	return nil
}

func (x *exec) VisitWhile(n *WhileStmt) error {
	for {
		if err := x.ctx.Err(); err != nil {
			return runtimeError(n.At, err, "")
		}

		test, err := x.eval(n.Test)
		if err != nil {
			return err
		}

		if !test.Truthy() {
			return nil
		}

		if err := x.run(n.Body); err != nil || x.returning {
			return err
		}
	}
}

func (x *exec) VisitMessage(n *MessageStmt) error {
	values := make([]Value, 0, len(n.Args))

	for _, arg := range n.Args {
		switch arg.Kind {
		case STRING:
			values = append(values, String(unquote(arg.Text)))

		case NUMBER:
			f, _ := strconv.ParseFloat(arg.Text, 64)
			values = append(values, Number(f))

		default:
			v, ok := x.env.Get(arg.Text)
			if !ok {
				return runtimeError(arg.Pos, ErrUndefinedVariable, arg.Text)
			}

			values = append(values, v)
		}
	}

	x.in.sink.Emit(x.ctx, values)

	return nil
}

func (x *exec) VisitShout(n *ShoutStmt) error {
	x.in.sink.Announce(x.ctx, n.Text)

	return nil
}

func (x *exec) VisitReturn(n *ReturnStmt) error {
	v, err := x.eval(n.Argument)
	if err != nil {
		return err
	}

	x.value = v
	x.returning = true

	return nil
}

func (x *exec) VisitExprStmt(n *ExprStmt) error {
	_, err := x.eval(n.Expression)

	return err
}

func (x *exec) VisitLiteral(n *Literal) error {
	x.value = n.Value

	return nil
}

func (x *exec) VisitIdentifier(n *Identifier) error {
	v, ok := x.env.Get(n.Name)
	if !ok {
		return runtimeError(n.At, ErrUndefinedVariable, n.Name)
	}

	x.value = v

	return nil
}

func (x *exec) VisitUnary(n *UnaryExpr) error {
	v, err := x.eval(n.Argument)
	if err != nil {
		return err
	}

	f, ok := v.Num()
	if !ok {
		return runtimeError(n.At, ErrType,
			"cannot apply "+n.Operator.Symbol()+" to "+v.Type().String())
	}

	x.value = Number(-f)

	return nil
}

func (x *exec) VisitBinary(n *BinaryExpr) error {
	l, err := x.eval(n.Left)
	if err != nil {
		return err
	}

	r, err := x.eval(n.Right)
	if err != nil {
		return err
	}

	v, ok := applyBinary(n.Operator, l, r)
	if !ok {
		return runtimeError(n.At, ErrType,
			"cannot apply "+n.Operator.Symbol()+" to "+
				l.Type().String()+" and "+r.Type().String())
	}

	x.value = v

	return nil
}

func (x *exec) VisitAssignment(n *Assignment) error {
	v, err := x.eval(n.Value)
	if err != nil {
		return err
	}

	if !x.env.Assign(n.Name, v) {
		return runtimeError(n.At, ErrUndefinedVariable, n.Name)
	}

	x.value = v

	return nil
}

func (x *exec) VisitCall(n *CallExpr) error {
	if fn, ok := x.in.funcs[n.Callee]; ok {
		return x.call(n, fn)
	}

	act, ok := x.in.actions[n.Callee]
	if !ok {
		return runtimeError(n.At, ErrUndefinedFunction, n.Callee)
	}

	args, err := x.args(n.Arguments)
	if err != nil {
		return err
	}

	x.in.logger.TraceContext(x.ctx, "action call",
		slog.String("name", n.Callee),
		slog.Int("args", len(args)),
	)

	v, err := act(x.ctx, args)
	if err != nil {
		return &RuntimeError{
			Err:    ErrAction,
			Detail: n.Callee,
			Cause:  err,
			Pos:    n.At,
		}
	}

	x.value = v

	return nil
}

// call invokes a user function in a new scope enclosed by the global scope.
func (x *exec) call(n *CallExpr, fn *FuncDecl) error {
	if len(n.Arguments) != len(fn.Params) {
		return runtimeError(n.At, ErrArity,
			n.Callee+" expects "+strconv.Itoa(len(fn.Params))+
				", got "+strconv.Itoa(len(n.Arguments)))
	}

	if x.depth >= x.in.maxDepth {
		return runtimeError(n.At, ErrMaxDepthExceeded, n.Callee)
	}

	args, err := x.args(n.Arguments)
	if err != nil {
		return err
	}

	local := NewEnvironment(x.in.globals)
	for i, param := range fn.Params {
		local.Define(param, args[i])
	}

	caller := x.env
	x.env = local
	x.depth++

	err = x.run(fn.Body)

	x.env = caller
	x.depth--

	result := Null
	if x.returning {
		result = x.value
		x.returning = false
	}

	x.value = result

	return err
}

// args evaluates call arguments left to right.
func (x *exec) args(exprs []Expr) ([]Value, error) {
	args := make([]Value, len(exprs))

	for i, e := range exprs {
		v, err := x.eval(e)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return args, nil
}

// applyBinary reports false when the operand types do not support op.
func applyBinary(op Kind, l, r Value) (Value, bool) {
	switch op {
	case EQUAL_EQUAL:
		return Bool(l.Equal(r)), true

	case NOT_EQUAL:
		return Bool(!l.Equal(r)), true

	case PLUS:
		if a, ok := l.Num(); ok {
			if b, ok := r.Num(); ok {
				return Number(a + b), true
			}
		}

		if l.Type() == TypeString || r.Type() == TypeString {
			return String(l.String() + r.String()), true
		}

		return Null, false
	}

	if a, ok := l.Num(); ok {
		b, ok := r.Num()
		if !ok {
			return Null, false
		}

		switch op {
		case MINUS:
			return Number(a - b), true
		case MULTIPLY:
			return Number(a * b), true
		case DIVIDE:
			return Number(a / b), true
		case GREATER:
			return Bool(a > b), true
		case LESS:
			return Bool(a < b), true
		case GTE:
			return Bool(a >= b), true
		case LTE:
			return Bool(a <= b), true
		}

		return Null, false
	}

	if a, ok := l.Str(); ok {
		b, ok := r.Str()
		if !ok {
			return Null, false
		}

		switch op {
		case GREATER:
			return Bool(a > b), true
		case LESS:
			return Bool(a < b), true
		case GTE:
			return Bool(a >= b), true
		case LTE:
			return Bool(a <= b), true
		}
	}

	return Null, false
}
