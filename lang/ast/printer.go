package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders expressions and statements as parenthesized Lisp-like
// text, the classic "AstPrinter" debugging shape used by the `parse`
// CLI subcommand.
type Printer struct {
	sb strings.Builder
}

// PrintExpr renders a single expression tree.
func PrintExpr(e Expr) string {
	var p Printer
	p.expr(e)
	return p.sb.String()
}

// PrintProgram renders a whole program, one statement per line.
func PrintProgram(stmts []Stmt) string {
	var sb strings.Builder
	for _, s := range stmts {
		var p Printer
		p.stmt(s)
		sb.WriteString(p.sb.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (p *Printer) paren(name string, parts ...interface{}) {
	p.sb.WriteByte('(')
	p.sb.WriteString(name)
	for _, part := range parts {
		p.sb.WriteByte(' ')
		switch v := part.(type) {
		case Expr:
			p.expr(v)
		case Stmt:
			p.stmt(v)
		case string:
			p.sb.WriteString(v)
		default:
			fmt.Fprintf(&p.sb, "%v", v)
		}
	}
	p.sb.WriteByte(')')
}

func (p *Printer) expr(e Expr) {
	if e == nil {
		p.sb.WriteString("nil")
		return
	}
	switch n := e.(type) {
	case *Assign:
		p.paren("assign", n.Name.Text, n.Value)
	case *Binary:
		p.paren(n.Op.Text, n.Left, n.Right)
	case *Call:
		args := make([]interface{}, 0, len(n.Args)+1)
		args = append(args, n.Callee)
		for _, a := range n.Args {
			args = append(args, a)
		}
		p.paren("call", args...)
	case *Get:
		p.paren(".", n.Object, n.Name.Text)
	case *Grouping:
		p.paren("group", n.Inner)
	case *Literal:
		p.sb.WriteString(literalString(n.Value))
	case *Logical:
		p.paren(n.Op.Text, n.Left, n.Right)
	case *Set:
		p.paren("set", n.Object, n.Name.Text, n.Value)
	case *Super:
		p.paren("super", n.Method.Text)
	case *This:
		p.sb.WriteString("this")
	case *Unary:
		p.paren(n.Op.Text, n.Right)
	case *Variable:
		p.sb.WriteString(n.Name.Text)
	default:
		fmt.Fprintf(&p.sb, "<unknown expr %T>", e)
	}
}

func (p *Printer) stmt(s Stmt) {
	switch n := s.(type) {
	case *Block:
		p.sb.WriteByte('(')
		p.sb.WriteString("block")
		for _, st := range n.Stmts {
			p.sb.WriteByte(' ')
			p.stmt(st)
		}
		p.sb.WriteByte(')')
	case *Class:
		p.sb.WriteString("(class ")
		p.sb.WriteString(n.Name.Text)
		if n.Superclass != nil {
			p.sb.WriteString(" < ")
			p.sb.WriteString(n.Superclass.Name.Text)
		}
		for _, m := range n.Methods {
			p.sb.WriteByte(' ')
			p.stmt(m)
		}
		p.sb.WriteByte(')')
	case *Expression:
		p.paren(";", n.Expr)
	case *Function:
		p.sb.WriteString("(fun ")
		p.sb.WriteString(n.Name.Text)
		p.sb.WriteByte('(')
		for i, param := range n.Params {
			if i > 0 {
				p.sb.WriteByte(' ')
			}
			p.sb.WriteString(param.Text)
		}
		p.sb.WriteString(") ")
		p.stmt(n.Body)
		p.sb.WriteByte(')')
	case *If:
		if n.Else != nil {
			p.paren("if-else", n.Cond, n.Then, n.Else)
		} else {
			p.paren("if", n.Cond, n.Then)
		}
	case *Print:
		p.paren("print", n.Expr)
	case *Return:
		if n.Value != nil {
			p.paren("return", n.Value)
		} else {
			p.sb.WriteString("(return)")
		}
	case *Var:
		if n.Init != nil {
			p.paren("var", n.Name.Text, n.Init)
		} else {
			p.paren("var", n.Name.Text)
		}
	case *While:
		p.paren("while", n.Cond, n.Body)
	default:
		fmt.Fprintf(&p.sb, "<unknown stmt %T>", s)
	}
}

// literalString formats a literal value the same way the evaluator formats
// runtime values for `print`, so the debug AST printer and `print` output
// agree on number formatting (trailing ".0" stripped for integral floats).
func literalString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
