package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program as canonical Miltov source.
//
// With indent > 0 each statement is written on its own line and block bodies
// are indented by indent spaces per level. With indent <= 0 the whole program
// is written on one line. Parsing the output yields an equivalent program.
func (n *Program) Format(_ context.Context, w io.Writer, indent int) error {
	p := &printer{indent: indent}

	_ = n.Accept(p)

	if p.Len() > 0 {
		p.WriteByte('\n')
	}

	_, err := io.WriteString(w, p.String())

	return err
}

// FormatJSON writes the program's map representation as JSON.
func (n *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(n.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(n.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the program's map representation as YAML.
func (n *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, n.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatAST writes an indented tree of the program's nodes.
func (n *Program) FormatAST(_ context.Context, w io.Writer) error {
	var b strings.Builder

	dumpNode(&b, n.ToMap(), 0)

	_, err := io.WriteString(w, b.String())

	return err
}

// FormatTokens writes one line per token: position, kind and text.
func FormatTokens(w io.Writer, toks []Token) error {
	for _, tok := range toks {
		_, err := fmt.Fprintf(w, "%-8s %-12s %s\n", tok.Pos, tok.Kind, tok.Text)
		if err != nil {
			return err
		}
	}

	return nil
}

func dumpNode(b *strings.Builder, m map[string]any, depth int) {
	pad := strings.Repeat("  ", depth)

	fmt.Fprintf(b, "%s%v (%v)\n", pad, m["type"], m["pos"])

	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "type" && k != "pos" {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]any:
			fmt.Fprintf(b, "%s  %s:\n", pad, k)
			dumpNode(b, v, depth+2)

		case []any:
			fmt.Fprintf(b, "%s  %s: [%d]\n", pad, k, len(v))

			for _, item := range v {
				if child, ok := item.(map[string]any); ok && child["type"] != nil {
					dumpNode(b, child, depth+2)
				} else {
					fmt.Fprintf(b, "%s    %v\n", pad, item)
				}
			}

		default:
			fmt.Fprintf(b, "%s  %s: %v\n", pad, k, v)
		}
	}
}

// Operator precedence, lowest first.
const (
	precAssign = iota
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

func precedence(e Expr) int {
	switch n := e.(type) {
	case *Assignment:
		return precAssign
	case *BinaryExpr:
		switch n.Operator {
		case EQUAL_EQUAL, NOT_EQUAL:
			return precEquality
		case GREATER, LESS, GTE, LTE:
			return precComparison
		case PLUS, MINUS:
			return precAdditive
		default:
			return precMultiplicative
		}
	case *UnaryExpr:
		return precUnary
	default:
		return precPrimary
	}
}

// printer renders nodes as source text.
type printer struct {
	strings.Builder

	indent int
	depth  int
}

func (p *printer) newline() {
	if p.indent <= 0 {
		p.WriteByte(' ')

		return
	}

	p.WriteByte('\n')
	p.WriteString(strings.Repeat(" ", p.depth*p.indent))
}

func (p *printer) stmts(body []Stmt) {
	for i, s := range body {
		if i > 0 {
			p.newline()
		}

		_ = s.Accept(p)
	}
}

func (p *printer) block(body []Stmt) {
	p.WriteByte('{')

	if len(body) > 0 {
		p.depth++
		p.newline()
		p.stmts(body)
		p.depth--
		p.newline()
	}

	p.WriteByte('}')
}

// expr writes e, parenthesized when it binds looser than least.
func (p *printer) expr(e Expr, least int) {
	if precedence(e) < least {
		p.WriteByte('(')
		_ = e.Accept(p)
		p.WriteByte(')')

		return
	}

	_ = e.Accept(p)
}

func (p *printer) VisitProgram(n *Program) error {
	p.stmts(n.Body)

	return nil
}

func (p *printer) VisitVarDecl(n *VarDecl) error {
	p.WriteString("milt ")
	p.WriteString(n.Name)
	p.WriteString(" = ")
	p.expr(n.Init, precAssign)

	return nil
}

func (p *printer) VisitFuncDecl(n *FuncDecl) error {
	p.WriteString("func ")
	p.WriteString(n.Name)
	p.WriteByte('(')
	p.WriteString(strings.Join(n.Params, ", "))
	p.WriteString(") ")
	p.block(n.Body)

	return nil
}

func (p *printer) VisitIf(n *IfStmt) error {
	p.WriteString("if (")
	p.expr(n.Test, precAssign)
	p.WriteString(") ")
	p.block(n.Consequent)

	if n.Alternate != nil {
		p.WriteString(" else ")
		p.block(n.Alternate)
	}

	return nil
}

func (p *printer) VisitWhile(n *WhileStmt) error {
	p.WriteString("while (")
	p.expr(n.Test, precAssign)
	p.WriteString(") ")
	p.block(n.Body)

	return nil
}

func (p *printer) VisitMessage(n *MessageStmt) error {
	p.WriteString("message(")

	for i, tok := range n.Args {
		if i > 0 {
			p.WriteString(", ")
		}

		p.WriteString(tok.Text)
	}

	p.WriteByte(')')

	return nil
}

func (p *printer) VisitShout(n *ShoutStmt) error {
	p.WriteString(`shout("`)
	p.WriteString(n.Text)
	p.WriteString(`")`)

	return nil
}

func (p *printer) VisitReturn(n *ReturnStmt) error {
	p.WriteString("return ")
	p.expr(n.Argument, precAssign)

	return nil
}

func (p *printer) VisitExprStmt(n *ExprStmt) error {
	p.expr(n.Expression, precAssign)

	return nil
}

func (p *printer) VisitLiteral(n *Literal) error {
	p.WriteString(n.Value.Quote())

	return nil
}

func (p *printer) VisitIdentifier(n *Identifier) error {
	p.WriteString(n.Name)

	return nil
}

func (p *printer) VisitUnary(n *UnaryExpr) error {
	p.WriteString(n.Operator.Symbol())
	p.expr(n.Argument, precUnary)

	return nil
}

func (p *printer) VisitBinary(n *BinaryExpr) error {
	prec := precedence(n)

	p.expr(n.Left, prec)
	p.WriteByte(' ')
	p.WriteString(n.Operator.Symbol())
	p.WriteByte(' ')
	// Operators are left-associative, so an equal-precedence right operand
	// needs parentheses.
	p.expr(n.Right, prec+1)

	return nil
}

func (p *printer) VisitCall(n *CallExpr) error {
	p.WriteString(n.Callee)
	p.WriteByte('(')

	for i, arg := range n.Arguments {
		if i > 0 {
			p.WriteString(", ")
		}

		p.expr(arg, precAssign)
	}

	p.WriteByte(')')

	return nil
}

func (p *printer) VisitAssignment(n *Assignment) error {
	p.WriteString(n.Name)
	p.WriteString(" = ")
	p.expr(n.Value, precAssign)

	return nil
}
