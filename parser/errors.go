package parser

import (
	"fmt"
	"strings"

	"github.com/titivuk/golox/token"
)

// ParseError is a single syntax error. Token is nil when the error was found
// at the end of the input.
type ParseError struct {
	Token   *token.Token
	Line    int
	Message string
}

// Location renders where the error occurred, e.g. "at 'var'" or "at end".
func (e *ParseError) Location() string {
	if e.Token == nil {
		return "at end"
	}
	return "at " + e.Token.String()
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Error %s: %s", e.Line, e.Location(), e.Message)
}

// Errors is every syntax error found in one pass, in source order.
type Errors []*ParseError

func (errs Errors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}
