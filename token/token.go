package token

import "fmt"

const (
	ILLEGAL = "ILLEGAL" // ILLEGAL signifies a token/character we don’t know about
	EOF     = "EOF"     // EOF stands for "end of file", which tells our parser later on that it can stop

	// identifiers + literals
	IDENT  = "IDENT"  // add, x, foo, ...
	NUMBER = "NUMBER" // 12345, 1.5
	STRING = "STRING" // "foo"

	// operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT     = "<"
	LT_EQ  = "<="
	GT     = ">"
	GT_EQ  = ">="
	EQ     = "=="
	NOT_EQ = "!="

	// Delimeters
	COMMA     = ","
	DOT       = "."
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	AND      = "AND"
	CLASS    = "CLASS"
	ELSE     = "ELSE"
	FALSE    = "FALSE"
	FOR      = "FOR"
	FUNCTION = "FUNCTION"
	IF       = "IF"
	NIL      = "NIL"
	OR       = "OR"
	PRINT    = "PRINT"
	RETURN   = "RETURN"
	SUPER    = "SUPER"
	THIS     = "THIS"
	TRUE     = "TRUE"
	VAR      = "VAR"
	WHILE    = "WHILE"
)

var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUNCTION,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

type TokenType string

// Token is a single lexeme. Literal is the source text; Value holds the
// decoded literal for NUMBER (float64) and STRING (string) tokens.
type Token struct {
	Type     TokenType
	Literal  string
	Value    any
	Line     int
	Position int // byte offset of the first character in the source
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end"
	}
	return fmt.Sprintf("'%s'", t.Literal)
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}

	return IDENT

}

// StartsStatement reports whether t opens a declaration or statement. The
// parser uses it as a synchronization point after a syntax error.
func StartsStatement(t TokenType) bool {
	switch t {
	case CLASS, FUNCTION, VAR, FOR, IF, WHILE, PRINT, RETURN:
		return true
	}
	return false
}
