package lang

// resolver collects every function declaration and call in a program,
// including those nested in blocks and function bodies.
type resolver struct {
	declared map[string]bool
	calls    []*CallExpr
}

func (r *resolver) stmts(body []Stmt) error {
	for _, s := range body {
		if err := s.Accept(r); err != nil {
			return err
		}
	}

	return nil
}

func (r *resolver) VisitProgram(n *Program) error { return r.stmts(n.Body) }

func (r *resolver) VisitVarDecl(n *VarDecl) error { return n.Init.Accept(r) }

func (r *resolver) VisitFuncDecl(n *FuncDecl) error {
	r.declared[n.Name] = true

	return r.stmts(n.Body)
}

func (r *resolver) VisitIf(n *IfStmt) error {
	if err := n.Test.Accept(r); err != nil {
		return err
	}

	if err := r.stmts(n.Consequent); err != nil {
		return err
	}

	return r.stmts(n.Alternate)
}

func (r *resolver) VisitWhile(n *WhileStmt) error {
	if err := n.Test.Accept(r); err != nil {
		return err
	}

	return r.stmts(n.Body)
}

func (r *resolver) VisitMessage(*MessageStmt) error { return nil }
func (r *resolver) VisitShout(*ShoutStmt) error     { return nil }

func (r *resolver) VisitReturn(n *ReturnStmt) error { return n.Argument.Accept(r) }

func (r *resolver) VisitExprStmt(n *ExprStmt) error { return n.Expression.Accept(r) }

func (r *resolver) VisitLiteral(*Literal) error       { return nil }
func (r *resolver) VisitIdentifier(*Identifier) error { return nil }

func (r *resolver) VisitUnary(n *UnaryExpr) error { return n.Argument.Accept(r) }

func (r *resolver) VisitBinary(n *BinaryExpr) error {
	if err := n.Left.Accept(r); err != nil {
		return err
	}

	return n.Right.Accept(r)
}

func (r *resolver) VisitCall(n *CallExpr) error {
	r.calls = append(r.calls, n)

	for _, arg := range n.Arguments {
		if err := arg.Accept(r); err != nil {
			return err
		}
	}

	return nil
}

func (r *resolver) VisitAssignment(n *Assignment) error { return n.Value.Accept(r) }
