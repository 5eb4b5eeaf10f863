package lexer

import "fmt"

type ErrorKind int

const (
	BadChar ErrorKind = iota
	UnterminatedString
	NumberParse
)

func (k ErrorKind) String() string {
	switch k {
	case BadChar:
		return "BadChar"
	case UnterminatedString:
		return "UnterminatedString"
	case NumberParse:
		return "NumberParse"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ScanError reports the first lexical error found in a source. Text is the
// offending character, the partial string literal, or the malformed numeral,
// depending on Kind.
type ScanError struct {
	Kind     ErrorKind
	Text     string
	Err      error // underlying cause for NumberParse
	Line     int
	Position int
}

func (e *ScanError) Error() string {
	switch e.Kind {
	case BadChar:
		return fmt.Sprintf("Unexpected character %s at %d", e.Text, e.Position)
	case UnterminatedString:
		return fmt.Sprintf("Unterminated string %s at %d", e.Text, e.Position)
	default:
		return fmt.Sprintf("Could not parse %s as a number at %d (%v)", e.Text, e.Position, e.Err)
	}
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
