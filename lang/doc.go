// Package lang implements Miltov, a small imperative scripting language.
//
// Source text is converted to tokens by a [Lexer], parsed into a [Program] by
// a recursive-descent parser, and executed by an [Interpreter] that walks the
// tree. Values are dynamically typed: numbers (float64), strings, booleans,
// and null.
//
// # Grammar
//
// Informal EBNF, lowest precedence first:
//
//	Program     → Statement* EOF
//	Statement   → VarDecl | FuncDecl | If | While | Message | Shout
//	            | Return | Expression
//	VarDecl     → 'milt' Identifier '=' Expression
//	FuncDecl    → 'func' Identifier '(' [Identifier (',' Identifier)*] ')' Block
//	If          → 'if' '(' Expression ')' Block ['else' Block]
//	While       → 'while' '(' Expression ')' Block
//	Message     → 'message' '(' [Atom (',' Atom)*] ')'
//	Atom        → String | Number | Identifier
//	Shout       → 'shout' '(' String ')'
//	Return      → 'return' Expression
//	Block       → '{' Statement* '}'
//	Expression  → Identifier '=' Expression | Equality
//	Equality    → Comparison (('==' | '!=') Comparison)*
//	Comparison  → Additive (('>' | '<' | '>=' | '<=') Additive)*
//	Additive    → Term (('+' | '-') Term)*
//	Term        → Unary (('*' | '/') Unary)*
//	Unary       → '-' Unary | Primary
//	Primary     → Number | String | Identifier ['(' Args ')'] | '(' Expression ')'
//
// Statements need no separator. Strings are double-quoted, may not span lines,
// and have no escape sequences. Numbers are runs of decimal digits.
//
// # Example
//
//	func fact(n) {
//	  if (n <= 1) { return 1 }
//	  return n * fact(n - 1)
//	}
//
//	milt i = 0
//	while (i < 3) {
//	  message("fact", i, "=", fact(i))
//	  i = i + 1
//	}
//	shout("done")
//
// # Scoping
//
// Variables live in an [Environment] chain. Top-level declarations bind in the
// global scope; each call to a user function gets a fresh scope enclosed by
// the global scope, so functions see globals and their own parameters but not
// the locals of their callers. Blocks do not open scopes.
//
// Functions are registered when their declaration executes and are global
// regardless of where they are declared. Calls to names that are not user
// functions are dispatched to host [Actions]. Before running, a program is
// checked for callees that can never resolve.
//
// # Output
//
// message and shout statements deliver to the interpreter's [Sink]. The
// platform package provides console and recording implementations.
package lang
