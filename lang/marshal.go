package lang

// ToMap returns a generic map representation of the program suitable for
// JSON or YAML encoding. Every node becomes a map with a "type" key.
func (n *Program) ToMap() map[string]any {
	var m mapper

	_ = n.Accept(&m)

	return m.out
}

// NodeMap returns the generic map representation of a single node.
func NodeMap(n Node) map[string]any {
	var m mapper

	_ = n.Accept(&m)

	return m.out
}

// mapper converts nodes to maps. Each visit leaves its result in out.
type mapper struct {
	out map[string]any
}

func (m *mapper) node(typ string, at Position, kv ...any) {
	out := make(map[string]any, len(kv)/2+2)
	out["type"] = typ
	out["pos"] = at.String()

	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		out[key] = kv[i+1]
	}

	m.out = out
}

func (m *mapper) conv(n Node) map[string]any {
	if n == nil {
		return nil
	}

	_ = n.Accept(m)

	return m.out
}

func (m *mapper) block(body []Stmt) []any {
	if body == nil {
		return nil
	}

	out := make([]any, len(body))
	for i, s := range body {
		out[i] = m.conv(s)
	}

	return out
}

func (m *mapper) VisitProgram(n *Program) error {
	body := m.block(n.Body)
	m.node("Program", n.Pos(), "body", body)

	return nil
}

func (m *mapper) VisitVarDecl(n *VarDecl) error {
	init := m.conv(n.Init)
	m.node("VariableDeclaration", n.At, "name", n.Name, "init", init)

	return nil
}

func (m *mapper) VisitFuncDecl(n *FuncDecl) error {
	params := make([]any, len(n.Params))
	for i, p := range n.Params {
		params[i] = p
	}

	body := m.block(n.Body)
	m.node("FunctionDeclaration", n.At,
		"name", n.Name, "params", params, "body", body)

	return nil
}

func (m *mapper) VisitIf(n *IfStmt) error {
	test := m.conv(n.Test)
	consequent := m.block(n.Consequent)

	if n.Alternate == nil {
		m.node("IfStatement", n.At, "test", test, "consequent", consequent)

		return nil
	}

	alternate := m.block(n.Alternate)
	m.node("IfStatement", n.At,
		"test", test, "consequent", consequent, "alternate", alternate)

	return nil
}

func (m *mapper) VisitWhile(n *WhileStmt) error {
	test := m.conv(n.Test)
	body := m.block(n.Body)
	m.node("WhileStatement", n.At, "test", test, "body", body)

	return nil
}

func (m *mapper) VisitMessage(n *MessageStmt) error {
	args := make([]any, len(n.Args))

	for i, tok := range n.Args {
		text := tok.Text
		if tok.Kind == STRING {
			text = unquote(text)
		}

		args[i] = map[string]any{"kind": tok.Kind.String(), "text": text}
	}

	m.node("MessageStatement", n.At, "args", args)

	return nil
}

func (m *mapper) VisitShout(n *ShoutStmt) error {
	m.node("ShoutStatement", n.At, "arg", n.Text)

	return nil
}

func (m *mapper) VisitReturn(n *ReturnStmt) error {
	arg := m.conv(n.Argument)
	m.node("ReturnStatement", n.At, "argument", arg)

	return nil
}

func (m *mapper) VisitExprStmt(n *ExprStmt) error {
	expr := m.conv(n.Expression)
	m.node("ExpressionStatement", n.At, "expression", expr)

	return nil
}

func (m *mapper) VisitLiteral(n *Literal) error {
	m.node("Literal", n.At, "value", n.Value.Native())

	return nil
}

func (m *mapper) VisitIdentifier(n *Identifier) error {
	m.node("Identifier", n.At, "name", n.Name)

	return nil
}

func (m *mapper) VisitUnary(n *UnaryExpr) error {
	arg := m.conv(n.Argument)
	m.node("UnaryExpression", n.At,
		"operator", n.Operator.Symbol(), "argument", arg)

	return nil
}

func (m *mapper) VisitBinary(n *BinaryExpr) error {
	left := m.conv(n.Left)
	right := m.conv(n.Right)
	m.node("BinaryExpression", n.At,
		"operator", n.Operator.Symbol(), "left", left, "right", right)

	return nil
}

func (m *mapper) VisitCall(n *CallExpr) error {
	args := make([]any, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = m.conv(a)
	}

	m.node("CallExpression", n.At, "callee", n.Callee, "arguments", args)

	return nil
}

func (m *mapper) VisitAssignment(n *Assignment) error {
	value := m.conv(n.Value)
	m.node("AssignmentExpression", n.At, "name", n.Name, "value", value)

	return nil
}
