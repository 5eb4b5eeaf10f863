package parser

import (
	"github.com/titivuk/golox/ast"
	"github.com/titivuk/golox/token"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression // param is left side of infix operator
)

const (
	_ int = iota // use iota to give the following constants incrementing numbers as values
	LOWEST
	ASSIGNMENT  // =
	LOGICAL_OR  // or
	LOGICAL_AND // and
	EQUALS      // == or !=
	LESSGREATER // > >= < <=
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -X or !X
	CALL        // myFunction(X)
)

const maxArguments = 255

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGNMENT,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT:       LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.LPAREN:   CALL,
}

// Parser consumes a token slice. Every parse function starts with currToken
// on the first token of its construct and leaves it on the first token after.
type Parser struct {
	tokens   []token.Token
	position int

	currToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	functionDepth int
	// set by a syntax error, cleared once the parser has resynchronized
	panicking bool

	errors Errors
}

// Parse returns the statements of a program, or every syntax error found.
func Parse(tokens []token.Token) ([]ast.Statement, error) {
	p := New(tokens)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs
	}
	return program.Statements, nil
}

func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Type: token.EOF, Line: line})
	}

	p := &Parser{tokens: tokens, position: -1}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefixFn(token.IDENT, p.parseIdentifier)
	p.registerPrefixFn(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefixFn(token.STRING, p.parseStringLiteral)
	p.registerPrefixFn(token.BANG, p.parsePrefixExpression)
	p.registerPrefixFn(token.MINUS, p.parsePrefixExpression)
	p.registerPrefixFn(token.TRUE, p.parseBoolean)
	p.registerPrefixFn(token.FALSE, p.parseBoolean)
	p.registerPrefixFn(token.NIL, p.parseNil)
	p.registerPrefixFn(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfixFn(token.EQ, p.parseInfixExpression)
	p.registerInfixFn(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfixFn(token.LT, p.parseInfixExpression)
	p.registerInfixFn(token.LT_EQ, p.parseInfixExpression)
	p.registerInfixFn(token.GT, p.parseInfixExpression)
	p.registerInfixFn(token.GT_EQ, p.parseInfixExpression)
	p.registerInfixFn(token.PLUS, p.parseInfixExpression)
	p.registerInfixFn(token.MINUS, p.parseInfixExpression)
	p.registerInfixFn(token.ASTERISK, p.parseInfixExpression)
	p.registerInfixFn(token.SLASH, p.parseInfixExpression)
	p.registerInfixFn(token.AND, p.parseLogicalExpression)
	p.registerInfixFn(token.OR, p.parseLogicalExpression)
	p.registerInfixFn(token.ASSIGN, p.parseAssignExpression)
	p.registerInfixFn(token.LPAREN, p.parseCallExpression)

	p.nextToken()

	return p
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	// parse until we reach the end
	for !p.currTokenIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}

	return program
}

func (p *Parser) Errors() Errors {
	return p.errors
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	err := &ParseError{Line: tok.Line, Message: msg}
	if tok.Type != token.EOF {
		t := tok
		err.Token = &t
	}
	p.errors = append(p.errors, err)
	p.panicking = true
}

// synchronize discards tokens until it passes a semicolon or reaches a token
// that starts a statement. It always consumes at least one token.
func (p *Parser) synchronize() {
	p.panicking = false

	for !p.currTokenIs(token.EOF) {
		if p.currTokenIs(token.SEMICOLON) {
			p.nextToken()
			return
		}

		p.nextToken()

		if token.StartsStatement(p.currToken.Type) {
			return
		}
	}
}

func (p *Parser) registerPrefixFn(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfixFn(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	last := len(p.tokens) - 1
	if p.position < last {
		p.position++
	}
	p.currToken = p.tokens[p.position]
}

// Statements

func (p *Parser) parseDeclaration() ast.Statement {
	var stmt ast.Statement

	switch p.currToken.Type {
	case token.VAR:
		stmt = p.parseVarStatement()
	case token.FUNCTION:
		stmt = p.parseFunctionStatement()
	default:
		stmt = p.parseStatement()
	}

	if p.panicking {
		p.synchronize()
		return nil
	}

	return stmt
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.currToken.Type {
	case token.PRINT:
		return p.parsePrintStatement()
	case token.LBRACE:
		block := p.parseBlockStatement()
		if block == nil {
			return nil
		}
		return block
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVarStatement() ast.Statement {
	stmt := &ast.VarStatement{Token: p.currToken}
	p.nextToken()

	if !p.currTokenIs(token.IDENT) {
		p.errorAt(p.currToken, "Expect variable name.")
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal}
	p.nextToken()

	if p.currTokenIs(token.ASSIGN) {
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}

	if !p.expect(token.SEMICOLON, "Expect ';' after variable declaration.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.currToken}
	p.nextToken()

	if !p.currTokenIs(token.IDENT) {
		p.errorAt(p.currToken, "Expect function name.")
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal}
	p.nextToken()

	if !p.expect(token.LPAREN, "Expect '(' after function name.") {
		return nil
	}

	stmt.Parameters = p.parseFunctionParameters()
	if stmt.Parameters == nil {
		return nil
	}

	if !p.currTokenIs(token.LBRACE) {
		p.errorAt(p.currToken, "Expect '{' before function body.")
		return nil
	}

	p.functionDepth++
	stmt.Body = p.parseBlockStatement()
	p.functionDepth--
	if stmt.Body == nil {
		return nil
	}

	return stmt
}

// parseFunctionParameters is called after the opening paren and consumes the
// closing one. It returns nil on a syntax error.
func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	parameters := []*ast.Identifier{}

	if !p.currTokenIs(token.RPAREN) {
		for {
			if len(parameters) >= maxArguments {
				p.errorAt(p.currToken, "Can't have more than 255 parameters.")
				return nil
			}
			if !p.currTokenIs(token.IDENT) {
				p.errorAt(p.currToken, "Expect parameter name.")
				return nil
			}
			parameters = append(parameters, &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal})
			p.nextToken()

			if !p.currTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expect(token.RPAREN, "Expect ')' after parameters.") {
		return nil
	}

	return parameters
}

func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.currToken}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	if !p.expect(token.SEMICOLON, "Expect ';' after value.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.currToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.currTokenIs(token.RBRACE) && !p.currTokenIs(token.EOF) {
		statement := p.parseDeclaration()
		if statement != nil {
			block.Statements = append(block.Statements, statement)
		}
	}

	if !p.expect(token.RBRACE, "Expect '}' after block.") {
		return nil
	}

	return block
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.currToken}
	p.nextToken()

	if !p.expect(token.LPAREN, "Expect '(' after 'if'.") {
		return nil
	}
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expect(token.RPAREN, "Expect ')' after if condition.") {
		return nil
	}

	stmt.Consequence = p.parseStatement()
	if stmt.Consequence == nil {
		return nil
	}

	// parse else branch if there is token.ELSE token
	if p.currTokenIs(token.ELSE) {
		p.nextToken()
		stmt.Alternative = p.parseStatement()
		if stmt.Alternative == nil {
			return nil
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.currToken}
	p.nextToken()

	if !p.expect(token.LPAREN, "Expect '(' after 'while'.") {
		return nil
	}
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expect(token.RPAREN, "Expect ')' after condition.") {
		return nil
	}

	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}

	return stmt
}

// parseForStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
func (p *Parser) parseForStatement() ast.Statement {
	forToken := p.currToken
	p.nextToken()

	if !p.expect(token.LPAREN, "Expect '(' after 'for'.") {
		return nil
	}

	var initializer ast.Statement
	switch {
	case p.currTokenIs(token.SEMICOLON):
		p.nextToken()
	case p.currTokenIs(token.VAR):
		initializer = p.parseVarStatement()
		if initializer == nil {
			return nil
		}
	default:
		initializer = p.parseExpressionStatement()
		if initializer == nil {
			return nil
		}
	}

	var condition ast.Expression
	if !p.currTokenIs(token.SEMICOLON) {
		condition = p.parseExpression(LOWEST)
		if condition == nil {
			return nil
		}
	}
	if !p.expect(token.SEMICOLON, "Expect ';' after loop condition.") {
		return nil
	}

	var increment ast.Expression
	if !p.currTokenIs(token.RPAREN) {
		increment = p.parseExpression(LOWEST)
		if increment == nil {
			return nil
		}
	}
	if !p.expect(token.RPAREN, "Expect ')' after for clauses.") {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	if increment != nil {
		body = &ast.BlockStatement{
			Token: forToken,
			Statements: []ast.Statement{
				body,
				&ast.ExpressionStatement{Token: forToken, Expression: increment},
			},
		}
	}

	if condition == nil {
		condition = &ast.Boolean{Token: token.Token{Type: token.TRUE, Literal: "true", Line: forToken.Line}, Value: true}
	}
	body = &ast.WhileStatement{Token: forToken, Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.BlockStatement{Token: forToken, Statements: []ast.Statement{initializer, body}}
	}

	return body
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.currToken}

	if p.functionDepth == 0 {
		p.errorAt(p.currToken, "Can't return from top-level code.")
		return nil
	}
	p.nextToken()

	if !p.currTokenIs(token.SEMICOLON) {
		stmt.ReturnValue = p.parseExpression(LOWEST)
		if stmt.ReturnValue == nil {
			return nil
		}
	}

	if !p.expect(token.SEMICOLON, "Expect ';' after return value.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.currToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if !p.expect(token.SEMICOLON, "Expect ';' after expression.") {
		return nil
	}

	return stmt
}

// Expressions

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.currToken.Type]
	if prefix == nil {
		p.errorAt(p.currToken, "Expect expression.")
		return nil
	}

	expression := prefix()

	for expression != nil && precedence < p.currPrecedence() {
		infix := p.infixParseFns[p.currToken.Type]
		if infix == nil {
			return expression
		}

		// currToken is the infix operator and expression is its left side
		expression = infix(expression)
	}

	return expression
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal}
	p.nextToken()
	return ident
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	value, _ := p.currToken.Value.(float64)
	lit := &ast.NumberLiteral{Token: p.currToken, Value: value}
	p.nextToken()
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, _ := p.currToken.Value.(string)
	lit := &ast.StringLiteral{Token: p.currToken, Value: value}
	p.nextToken()
	return lit
}

func (p *Parser) parseBoolean() ast.Expression {
	b := &ast.Boolean{Token: p.currToken, Value: p.currTokenIs(token.TRUE)}
	p.nextToken()
	return b
}

func (p *Parser) parseNil() ast.Expression {
	n := &ast.NilLiteral{Token: p.currToken}
	p.nextToken()
	return n
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{Token: p.currToken, Operator: p.currToken.Literal}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.currToken,
		Operator: p.currToken.Literal,
		Left:     left,
	}

	precedence := p.currPrecedence() // curr is infix operator
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expression := &ast.LogicalExpression{
		Token:    p.currToken,
		Operator: p.currToken.Literal,
		Left:     left,
	}

	precedence := p.currPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// assignment is right-associative: the value is parsed one level below
// ASSIGNMENT so a chained = is folded into it
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	equals := p.currToken
	p.nextToken()

	value := p.parseExpression(ASSIGNMENT - 1)
	if value == nil {
		return nil
	}

	name, ok := left.(*ast.Identifier)
	if !ok {
		p.errorAt(equals, "Invalid assignment target.")
		return nil
	}

	return &ast.AssignExpression{Token: equals, Name: name, Value: value}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	expression := &ast.GroupedExpression{Token: p.currToken}
	p.nextToken()

	expression.Expression = p.parseExpression(LOWEST)
	if expression.Expression == nil {
		return nil
	}

	if !p.expect(token.RPAREN, "Expect ')' after expression.") {
		return nil
	}

	return expression
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expression := &ast.CallExpression{Token: p.currToken, Function: function}
	p.nextToken()

	arguments := []ast.Expression{}
	if !p.currTokenIs(token.RPAREN) {
		for {
			if len(arguments) >= maxArguments {
				p.errorAt(p.currToken, "Can't have more than 255 arguments.")
				return nil
			}
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			arguments = append(arguments, arg)

			if !p.currTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expect(token.RPAREN, "Expect ')' after arguments.") {
		return nil
	}
	expression.Arguments = arguments

	return expression
}

func (p *Parser) currTokenIs(t token.TokenType) bool {
	return p.currToken.Type == t
}

// expect consumes currToken if it has type t and records msg as a syntax
// error otherwise
func (p *Parser) expect(t token.TokenType, msg string) bool {
	if p.currTokenIs(t) {
		p.nextToken()
		return true
	}

	p.errorAt(p.currToken, msg)
	return false
}

// returns the precedence associated with the token type of p.currToken
func (p *Parser) currPrecedence() int {
	if p, ok := precedences[p.currToken.Type]; ok {
		return p
	}

	return LOWEST
}
