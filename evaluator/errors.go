package evaluator

import (
	"fmt"
	"strings"

	"github.com/titivuk/golox/ast"
)

// RuntimeError is raised while evaluating Expr.
type RuntimeError struct {
	Expr    ast.Node
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	expr := ""
	if e.Expr != nil {
		expr = e.Expr.String()
	}
	return fmt.Sprintf("%s [line %d]: %s", e.Message, e.Line, expr)
}

// RuntimeErrors holds one error per failed top-level statement, in order.
type RuntimeErrors []*RuntimeError

func (errs RuntimeErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}
