package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // callee name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside an argument list
}

// detectFunctionCall reports whether the cursor is inside the argument list of
// a call, and if so, the callee and the index of the argument at the cursor.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Find the innermost unclosed '(' before the cursor.
	depth := 0
	open := -1

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return functionCall{}
	}

	end := strings.TrimRight(input[:open], " \t")
	start := len(end)

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(end[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := end[start:]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for _, ch := range input[open+1 : cursor] {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// signature returns the signature of a user function or action, or "" if
// name is neither. Actions accept any number of arguments.
func (m model) signature(name string) (signature string, params []string) {
	if fn, ok := m.interp.Function(name); ok {
		return name + "(" + strings.Join(fn.Params, ", ") + ")", fn.Params
	}

	if m.isFunction(name) {
		return name + "(...args)", []string{"...args"}
	}

	return "", nil
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	open := strings.Index(signature, "(")
	if open < 0 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every later argument.
		variadic := strings.HasPrefix(param, "...")

		if currentArgIdx == i || (variadic && currentArgIdx > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
