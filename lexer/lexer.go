package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/titivuk/golox/token"
)

// Lexer works on bytes. Non-ASCII input is only accepted inside string
// literals and comments.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current read position in input (after current char)
	ch           byte // current char under examination
	line         int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Scan tokenizes the whole input. The returned slice always ends with an EOF
// token. Scanning stops at the first lexical error.
func Scan(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition += 1
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespaceAndComments()

	start := l.position
	newToken := func(t token.TokenType) token.Token {
		return token.Token{Type: t, Literal: l.input[start:l.position], Line: l.line, Position: start}
	}
	// two-char operators: consume the second char only when it matches
	either := func(next byte, two, one token.TokenType) token.Token {
		if l.peekChar() == next {
			l.readChar()
			l.readChar()
			return newToken(two)
		}
		l.readChar()
		return newToken(one)
	}

	if l.atEnd() {
		return token.Token{Type: token.EOF, Line: l.line, Position: start}, nil
	}

	switch l.ch {
	case '=':
		return either('=', token.EQ, token.ASSIGN), nil
	case '!':
		return either('=', token.NOT_EQ, token.BANG), nil
	case '<':
		return either('=', token.LT_EQ, token.LT), nil
	case '>':
		return either('=', token.GT_EQ, token.GT), nil
	case '"':
		return l.readString()
	}

	if isLetter(l.ch) {
		literal := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(literal), Literal: literal, Line: l.line, Position: start}, nil
	}
	if isDigit(l.ch) {
		return l.readNumber()
	}

	var tt token.TokenType
	switch l.ch {
	case '+':
		tt = token.PLUS
	case '-':
		tt = token.MINUS
	case '*':
		tt = token.ASTERISK
	case '/':
		tt = token.SLASH
	case ',':
		tt = token.COMMA
	case '.':
		tt = token.DOT
	case ';':
		tt = token.SEMICOLON
	case '(':
		tt = token.LPAREN
	case ')':
		tt = token.RPAREN
	case '{':
		tt = token.LBRACE
	case '}':
		tt = token.RBRACE
	default:
		r, _ := utf8.DecodeRuneInString(l.input[l.position:])
		return token.Token{Type: token.ILLEGAL}, &ScanError{
			Kind:     BadChar,
			Text:     string(r),
			Line:     l.line,
			Position: start,
		}
	}

	l.readChar()
	return newToken(tt), nil
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch l.ch {
		case '\n':
			l.line++
			l.readChar()
		case ' ', '\t', '\r':
			l.readChar()
		case '/':
			if l.peekChar() != '/' {
				return
			}
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position

	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	return l.input[position:l.position]
}

// readNumber consumes every digit and dot so that malformed numerals such as
// 12.34.56 are reported as a whole.
func (l *Lexer) readNumber() (token.Token, error) {
	position := l.position
	line := l.line

	for isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}

	literal := l.input[position:l.position]
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL}, &ScanError{
			Kind:     NumberParse,
			Text:     literal,
			Err:      err,
			Line:     line,
			Position: position,
		}
	}

	return token.Token{Type: token.NUMBER, Literal: literal, Value: value, Line: line, Position: position}, nil
}

// readString expects l.ch to be the opening quote. Strings may span lines; the
// token carries the line the literal starts on.
func (l *Lexer) readString() (token.Token, error) {
	position := l.position
	line := l.line

	l.readChar()
	for !l.atEnd() && l.ch != '"' {
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}

	if l.atEnd() {
		return token.Token{Type: token.ILLEGAL}, &ScanError{
			Kind:     UnterminatedString,
			Text:     l.input[position:],
			Line:     line,
			Position: position,
		}
	}

	l.readChar() // closing quote
	literal := l.input[position:l.position]
	return token.Token{
		Type:     token.STRING,
		Literal:  literal,
		Value:    literal[1 : len(literal)-1],
		Line:     line,
		Position: position,
	}, nil
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
