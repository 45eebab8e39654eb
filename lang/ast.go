package lang

// Node is implemented by every AST node.
//
// The node set is closed: Accept dispatches to exactly one [Visitor] method,
// so adding a node kind requires every visitor to handle it.
type Node interface {
	Pos() Position
	Accept(v Visitor) error
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Visitor has one method per node kind.
//
// Block bodies are not visited automatically; implementations recurse into the
// children they care about.
type Visitor interface {
	VisitProgram(n *Program) error
	VisitVarDecl(n *VarDecl) error
	VisitFuncDecl(n *FuncDecl) error
	VisitIf(n *IfStmt) error
	VisitWhile(n *WhileStmt) error
	VisitMessage(n *MessageStmt) error
	VisitShout(n *ShoutStmt) error
	VisitReturn(n *ReturnStmt) error
	VisitExprStmt(n *ExprStmt) error
	VisitLiteral(n *Literal) error
	VisitIdentifier(n *Identifier) error
	VisitUnary(n *UnaryExpr) error
	VisitBinary(n *BinaryExpr) error
	VisitCall(n *CallExpr) error
	VisitAssignment(n *Assignment) error
}

// Program is the root of a parsed source.
type Program struct {
	Body []Stmt
}

// Pos returns the position of the first statement, or the start of input.
func (n *Program) Pos() Position {
	if len(n.Body) > 0 {
		return n.Body[0].Pos()
	}

	return Position{Line: 1, Column: 1}
}

func (n *Program) Accept(v Visitor) error { return v.VisitProgram(n) }

// VarDecl binds Name to the value of Init in the current scope.
type VarDecl struct {
	Init Expr
	Name string
	At   Position
}

// FuncDecl registers a user-defined function.
type FuncDecl struct {
	Name   string
	Params []string
	Body   []Stmt
	At     Position
}

// IfStmt executes Consequent when Test is truthy, otherwise Alternate.
// Alternate is either nil or non-empty.
type IfStmt struct {
	Test       Expr
	Consequent []Stmt
	Alternate  []Stmt
	At         Position
}

// WhileStmt executes Body while Test is truthy.
type WhileStmt struct {
	Test Expr
	Body []Stmt
	At   Position
}

// MessageStmt emits its arguments to the sink. Each argument is a STRING,
// NUMBER, or IDENTIFIER token.
type MessageStmt struct {
	Args []Token
	At   Position
}

// ShoutStmt announces Text, which is the unquoted string literal.
type ShoutStmt struct {
	Text string
	At   Position
}

// ReturnStmt unwinds the enclosing call, or ends the program at top level.
type ReturnStmt struct {
	Argument Expr
	At       Position
}

// ExprStmt evaluates an expression for effect.
type ExprStmt struct {
	Expression Expr
	At         Position
}

// Literal is a number or string constant.
type Literal struct {
	Value Value
	At    Position
}

// Identifier is a variable reference.
type Identifier struct {
	Name string
	At   Position
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Argument Expr
	Operator Kind
	At       Position
}

// BinaryExpr applies an infix operator. Left is evaluated before Right.
type BinaryExpr struct {
	Left     Expr
	Right    Expr
	Operator Kind
	At       Position
}

// CallExpr calls a user function or a registered action by name.
type CallExpr struct {
	Callee    string
	Arguments []Expr
	At        Position
}

// Assignment rebinds the nearest existing variable named Name.
type Assignment struct {
	Value Expr
	Name  string
	At    Position
}

func (n *VarDecl) Pos() Position     { return n.At }
func (n *FuncDecl) Pos() Position    { return n.At }
func (n *IfStmt) Pos() Position      { return n.At }
func (n *WhileStmt) Pos() Position   { return n.At }
func (n *MessageStmt) Pos() Position { return n.At }
func (n *ShoutStmt) Pos() Position   { return n.At }
func (n *ReturnStmt) Pos() Position  { return n.At }
func (n *ExprStmt) Pos() Position    { return n.At }
func (n *Literal) Pos() Position     { return n.At }
func (n *Identifier) Pos() Position  { return n.At }
func (n *UnaryExpr) Pos() Position   { return n.At }
func (n *BinaryExpr) Pos() Position  { return n.At }
func (n *CallExpr) Pos() Position    { return n.At }
func (n *Assignment) Pos() Position  { return n.At }

func (n *VarDecl) Accept(v Visitor) error     { return v.VisitVarDecl(n) }
func (n *FuncDecl) Accept(v Visitor) error    { return v.VisitFuncDecl(n) }
func (n *IfStmt) Accept(v Visitor) error      { return v.VisitIf(n) }
func (n *WhileStmt) Accept(v Visitor) error   { return v.VisitWhile(n) }
func (n *MessageStmt) Accept(v Visitor) error { return v.VisitMessage(n) }
func (n *ShoutStmt) Accept(v Visitor) error   { return v.VisitShout(n) }
func (n *ReturnStmt) Accept(v Visitor) error  { return v.VisitReturn(n) }
func (n *ExprStmt) Accept(v Visitor) error    { return v.VisitExprStmt(n) }
func (n *Literal) Accept(v Visitor) error     { return v.VisitLiteral(n) }
func (n *Identifier) Accept(v Visitor) error  { return v.VisitIdentifier(n) }
func (n *UnaryExpr) Accept(v Visitor) error   { return v.VisitUnary(n) }
func (n *BinaryExpr) Accept(v Visitor) error  { return v.VisitBinary(n) }
func (n *CallExpr) Accept(v Visitor) error    { return v.VisitCall(n) }
func (n *Assignment) Accept(v Visitor) error  { return v.VisitAssignment(n) }

func (*VarDecl) stmtNode()     {}
func (*FuncDecl) stmtNode()    {}
func (*IfStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()   {}
func (*MessageStmt) stmtNode() {}
func (*ShoutStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()  {}
func (*ExprStmt) stmtNode()    {}

func (*Literal) exprNode()    {}
func (*Identifier) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*Assignment) exprNode() {}
