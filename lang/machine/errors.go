package machine

import (
	"fmt"

	"github.com/loxlang/lox/lang/token"
)

// RuntimeError is returned for any failure during evaluation: type
// mismatches, undefined variables/properties, arity mismatches, non-callable
// invocation and non-instance property access. Unlike the
// scanner/parser/resolver's accumulated token.ErrorList, a RuntimeError
// aborts evaluation of the current top-level statement immediately — it is
// never accumulated.
type RuntimeError struct {
	Pos token.Pos
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

// Diagnostic formats the error for display: "<message>\n[line N]".
func (e *RuntimeError) Diagnostic() string {
	return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Pos.Line())
}

func runtimeErrorf(pos token.Pos, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
