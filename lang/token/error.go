package token

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a single diagnostic produced by the scanner, parser or resolver.
// Msg is expected to already carry the "Error" or "Error at '...'" prefix
// required by the diagnostic format; Error.Error formats it together with
// the line it occurred on.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Pos.Line(), e.Msg)
}

// ErrorList is a list of *Error, sortable by position, used to accumulate
// diagnostics across an entire scan/parse/resolve pass instead of aborting
// on the first failure.
type ErrorList []*Error

// Add appends an error at pos with the given formatted message.
func (p *ErrorList) Add(pos Pos, msg string) {
	*p = append(*p, &Error{Pos: pos, Msg: msg})
}

// Addf is like Add but accepts a format string.
func (p *ErrorList) Addf(pos Pos, format string, args ...interface{}) {
	p.Add(pos, fmt.Sprintf(format, args...))
}

func (p ErrorList) Len() int      { return len(p) }
func (p ErrorList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p ErrorList) Less(i, j int) bool {
	li, _ := p[i].Pos.LineCol()
	lj, _ := p[j].Pos.LineCol()
	return li < lj
}

// Sort orders the list by line, ascending; errors on the same line keep
// the order in which they were added.
func (p ErrorList) Sort() { sort.Stable(p) }

func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	lines := make([]string, len(p))
	for i, e := range p {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Err returns nil if the list is empty, otherwise it returns the list
// itself as an error.
func (p ErrorList) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}
