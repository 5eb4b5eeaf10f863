package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titivuk/golox/token"
)

func types(tokens []token.Token) []token.TokenType {
	out := make([]token.TokenType, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestScanTokenTypes(t *testing.T) {
	input := `var five = 5;
fun add(x, y) { return x + y; }
// comment until end of line
if (five >= 10 and !true or nil != false) print "ok"; else five = five / 2 * 3 - 1;
while (five <= 3) five = five < 1 == five > 2;
for (;;) {}
`
	tokens, err := Scan(input)
	require.NoError(t, err)

	want := []token.TokenType{
		token.VAR, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.FUNCTION, token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.LBRACE, token.RETURN, token.IDENT, token.PLUS, token.IDENT, token.SEMICOLON, token.RBRACE,
		token.IF, token.LPAREN, token.IDENT, token.GT_EQ, token.NUMBER, token.AND, token.BANG, token.TRUE,
		token.OR, token.NIL, token.NOT_EQ, token.FALSE, token.RPAREN, token.PRINT, token.STRING, token.SEMICOLON,
		token.ELSE, token.IDENT, token.ASSIGN, token.IDENT, token.SLASH, token.NUMBER, token.ASTERISK,
		token.NUMBER, token.MINUS, token.NUMBER, token.SEMICOLON,
		token.WHILE, token.LPAREN, token.IDENT, token.LT_EQ, token.NUMBER, token.RPAREN,
		token.IDENT, token.ASSIGN, token.IDENT, token.LT, token.NUMBER, token.EQ, token.IDENT, token.GT,
		token.NUMBER, token.SEMICOLON,
		token.FOR, token.LPAREN, token.SEMICOLON, token.SEMICOLON, token.RPAREN, token.LBRACE, token.RBRACE,
		token.EOF,
	}
	if diff := cmp.Diff(want, types(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestScanLiteralsAndPositions(t *testing.T) {
	tokens, err := Scan("x = 12.5;\n  \"hi\"")
	require.NoError(t, err)
	require.Len(t, tokens, 6)

	assert.Equal(t, token.Token{Type: token.IDENT, Literal: "x", Line: 1, Position: 0}, tokens[0])
	assert.Equal(t, token.Token{Type: token.NUMBER, Literal: "12.5", Value: 12.5, Line: 1, Position: 4}, tokens[2])
	assert.Equal(t, token.Token{Type: token.STRING, Literal: `"hi"`, Value: "hi", Line: 2, Position: 12}, tokens[4])
	assert.Equal(t, token.TokenType(token.EOF), tokens[5].Type)
	assert.Equal(t, 2, tokens[5].Line)
}

func TestScanMultilineString(t *testing.T) {
	tokens, err := Scan("\"a\nb\" x")
	require.NoError(t, err)

	assert.Equal(t, "a\nb", tokens[0].Value)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
}

func TestScanEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "// only a comment"} {
		tokens, err := Scan(input)
		require.NoError(t, err, input)
		require.Len(t, tokens, 1, input)
		assert.Equal(t, token.TokenType(token.EOF), tokens[0].Type)
	}
}

func TestScanBadChar(t *testing.T) {
	_, err := Scan("var a = 1;\nvar b = @;")
	require.Error(t, err)

	scanErr, ok := err.(*ScanError)
	require.True(t, ok)
	assert.Equal(t, BadChar, scanErr.Kind)
	assert.Equal(t, "@", scanErr.Text)
	assert.Equal(t, 2, scanErr.Line)
	assert.Equal(t, 19, scanErr.Position)
	assert.Equal(t, "Unexpected character @ at 19", scanErr.Error())
}

func TestScanStopsAtFirstError(t *testing.T) {
	_, err := Scan("# $ %")

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "#", scanErr.Text)
}

func TestScanUnterminatedString(t *testing.T) {
	tests := []struct {
		input string
		line  int
		text  string
	}{
		{`"abc`, 1, `"abc`},
		{"print 1;\n\"abc\ndef", 2, "\"abc\ndef"},
		{"\n\n\"", 3, `"`},
	}

	for _, tt := range tests {
		_, err := Scan(tt.input)

		var scanErr *ScanError
		require.ErrorAs(t, err, &scanErr, tt.input)
		assert.Equal(t, UnterminatedString, scanErr.Kind, tt.input)
		assert.Equal(t, tt.line, scanErr.Line, tt.input)
		assert.Equal(t, tt.text, scanErr.Text, tt.input)
	}
}

func TestScanMalformedNumber(t *testing.T) {
	for _, numeral := range []string{"12.34.56", "1..2", "0.0.0"} {
		_, err := Scan("print " + numeral + ";")

		var scanErr *ScanError
		require.ErrorAs(t, err, &scanErr, numeral)
		assert.Equal(t, NumberParse, scanErr.Kind)
		assert.Equal(t, numeral, scanErr.Text)
		assert.Equal(t, 6, scanErr.Position)
		assert.NotNil(t, scanErr.Unwrap())
		assert.True(t, strings.HasPrefix(scanErr.Error(), "Could not parse "+numeral+" as a number at 6"))
	}
}

func TestScanValidSourcesNeverFail(t *testing.T) {
	sources := []string{
		`print "a" + "b";`,
		`var x_1 = 0; x_1 = x_1 + 10.25;`,
		"fun f() {\n  return \"multi\nline\";\n}",
		`print !(1 != 2) == (3 <= 4);`,
	}
	for _, src := range sources {
		_, err := Scan(src)
		assert.NoError(t, err, src)
	}
}
