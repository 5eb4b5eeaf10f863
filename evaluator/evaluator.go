package evaluator

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/titivuk/golox/ast"
	"github.com/titivuk/golox/object"
	"github.com/titivuk/golox/token"
)

// reuse some objects (similar to oddbals in v8 engine)
var (
	NIL   = &object.Nil{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

const DefaultMaxCallDepth = 1024

type Interpreter struct {
	out          io.Writer
	logger       *slog.Logger
	maxCallDepth int
	depth        int
}

type Option func(*Interpreter)

func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// WithMaxCallDepth bounds nested function calls. Deeper calls fail with a
// "Stack overflow." runtime error.
func WithMaxCallDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxCallDepth = n
		}
	}
}

// New returns an interpreter that writes print output to out.
func New(out io.Writer, opts ...Option) *Interpreter {
	in := &Interpreter{
		out:          out,
		logger:       slog.Default(),
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret executes statements in order against env. A runtime error aborts
// the top-level statement that raised it; the remaining statements still run.
// The returned error is RuntimeErrors when any statement failed.
func (in *Interpreter) Interpret(statements []ast.Statement, env *object.Environment) error {
	var errs RuntimeErrors

	for _, st := range statements {
		result := in.Eval(st, env)

		if err, ok := result.(*object.Error); ok {
			in.logger.Debug("runtime error", "line", err.Line, "message", err.Message)
			errs = append(errs, &RuntimeError{Expr: err.Node, Line: err.Line, Message: err.Message})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (in *Interpreter) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return in.evalStatements(node.Statements, env)
	case *ast.ExpressionStatement:
		return in.Eval(node.Expression, env)
	case *ast.PrintStatement:
		value := in.Eval(node.Value, env)
		if isError(value) {
			return value
		}

		fmt.Fprintln(in.out, value.Inspect())
		return NIL
	case *ast.VarStatement:
		var value object.Object = NIL
		if node.Value != nil {
			value = in.Eval(node.Value, env)
			if isError(value) {
				return value
			}
		}

		env.Define(node.Name.Value, value)
		return NIL
	case *ast.BlockStatement:
		blockEnv := object.NewEnclosedEnvironment(env)
		defer blockEnv.Release()

		return in.evalStatements(node.Statements, blockEnv)
	case *ast.IfStatement:
		return in.evalIfStatement(node, env)
	case *ast.WhileStatement:
		return in.evalWhileStatement(node, env)
	case *ast.FunctionStatement:
		env.Capture()
		env.Define(node.Name.Value, &object.Function{
			Name:       node.Name.Value,
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		})
		return NIL
	case *ast.ReturnStatement:
		return in.evalReturnStatement(node, env)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}
	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NilLiteral:
		return NIL
	case *ast.GroupedExpression:
		return in.Eval(node.Expression, env)
	case *ast.Identifier:
		return evalIdentifier(node, env)
	case *ast.AssignExpression:
		value := in.Eval(node.Value, env)
		if isError(value) {
			return value
		}

		if err := env.Assign(node.Name.Value, value); err != nil {
			return newError(node, node.Name.Token.Line, "%s", err)
		}
		return value
	case *ast.PrefixExpression:
		right := in.Eval(node.Right, env)
		if isError(right) {
			return right
		}

		return evalPrefixExpression(node, right)
	case *ast.InfixExpression:
		left := in.Eval(node.Left, env)
		if isError(left) {
			return left
		}

		right := in.Eval(node.Right, env)
		if isError(right) {
			return right
		}

		return evalInfixExpression(node, left, right)
	case *ast.LogicalExpression:
		return in.evalLogicalExpression(node, env)
	case *ast.CallExpression:
		function := in.Eval(node.Function, env)
		if isError(function) {
			return function
		}

		args := make([]object.Object, 0, len(node.Arguments))
		for _, a := range node.Arguments {
			arg := in.Eval(a, env)
			if isError(arg) {
				return arg
			}
			args = append(args, arg)
		}

		return in.applyFunction(node, function, args)
	default:
		return newError(node, 0, "unknown node %T", node)
	}
}

// evalStatements runs statements until one of them returns or fails. Both
// results are passed up unchanged: a ReturnValue keeps unwinding enclosing
// blocks until applyFunction unwraps it, and an Error unwinds up to
// Interpret.
func (in *Interpreter) evalStatements(statements []ast.Statement, env *object.Environment) object.Object {
	for _, st := range statements {
		result := in.Eval(st, env)

		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}

	return NIL
}

func (in *Interpreter) evalIfStatement(is *ast.IfStatement, env *object.Environment) object.Object {
	condition := in.Eval(is.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return in.Eval(is.Consequence, env)
	}

	if is.Alternative != nil {
		return in.Eval(is.Alternative, env)
	}

	return NIL
}

func (in *Interpreter) evalWhileStatement(ws *ast.WhileStatement, env *object.Environment) object.Object {
	for {
		condition := in.Eval(ws.Condition, env)
		if isError(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return NIL
		}

		result := in.Eval(ws.Body, env)
		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}
}

func (in *Interpreter) evalReturnStatement(rs *ast.ReturnStatement, env *object.Environment) object.Object {
	if rs.ReturnValue == nil {
		return &object.ReturnValue{Value: NIL}
	}

	value := in.Eval(rs.ReturnValue, env)
	if isError(value) {
		return value
	}

	return &object.ReturnValue{Value: value}
}

func (in *Interpreter) evalLogicalExpression(le *ast.LogicalExpression, env *object.Environment) object.Object {
	left := in.Eval(le.Left, env)
	if isError(left) {
		return left
	}

	// the result is the operand that decided it, not a coerced boolean
	if le.Token.Type == token.OR {
		if isTruthy(left) {
			return left
		}
	} else if !isTruthy(left) {
		return left
	}

	return in.Eval(le.Right, env)
}

func (in *Interpreter) applyFunction(call *ast.CallExpression, fn object.Object, args []object.Object) object.Object {
	line := call.Token.Line

	callable, ok := fn.(object.Callable)
	if !ok {
		return newError(call, line, "Can only call functions.")
	}
	if len(args) != callable.Arity() {
		return newError(call, line, "Expected %d arguments but got %d.", callable.Arity(), len(args))
	}

	switch fn := callable.(type) {
	case *object.Builtin:
		result := fn.Fn(args...)
		if err, ok := result.(*object.Error); ok && err.Node == nil {
			err.Node, err.Line = call, line
		}
		return result
	case *object.Function:
		if in.depth >= in.maxCallDepth {
			return newError(call, line, "Stack overflow.")
		}
		in.depth++
		defer func() { in.depth-- }()

		callEnv := object.NewEnclosedEnvironment(fn.Env)
		defer callEnv.Release()

		for i, param := range fn.Parameters {
			callEnv.Define(param.Value, args[i])
		}

		return unwrapReturnValue(in.evalStatements(fn.Body.Statements, callEnv))
	default:
		return newError(call, line, "Can only call functions.")
	}
}

func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}

	return obj
}

func evalIdentifier(ident *ast.Identifier, env *object.Environment) object.Object {
	value, err := env.Get(ident.Value)
	if err == nil {
		return value
	}

	if builtin, ok := builtins[ident.Value]; ok {
		return builtin
	}

	return newError(ident, ident.Token.Line, "%s", err)
}

func evalPrefixExpression(pe *ast.PrefixExpression, right object.Object) object.Object {
	switch pe.Token.Type {
	case token.BANG:
		return nativeBoolToBooleanObject(!isTruthy(right))
	case token.MINUS:
		number, ok := right.(*object.Number)
		if !ok {
			return newError(pe, pe.Token.Line, "Operand must be a number.")
		}

		return &object.Number{Value: -number.Value}
	default:
		return newError(pe, pe.Token.Line, "unknown operator: %s%s", pe.Operator, right.Type())
	}
}

func evalInfixExpression(ie *ast.InfixExpression, left, right object.Object) object.Object {
	switch ie.Token.Type {
	case token.EQ:
		return nativeBoolToBooleanObject(isEqual(left, right))
	case token.NOT_EQ:
		return nativeBoolToBooleanObject(!isEqual(left, right))
	case token.PLUS:
		_, leftIsString := left.(*object.String)
		_, rightIsString := right.(*object.String)
		if leftIsString || rightIsString {
			return &object.String{Value: left.Inspect() + right.Inspect()}
		}
	}

	leftNum, leftOk := left.(*object.Number)
	rightNum, rightOk := right.(*object.Number)
	if !leftOk || !rightOk {
		if ie.Token.Type == token.PLUS {
			return newError(ie, ie.Token.Line, "Operands must be two numbers or at least one string.")
		}
		return newError(ie, ie.Token.Line, "Operands must be numbers.")
	}

	return evalNumberInfixExpression(ie, leftNum.Value, rightNum.Value)
}

func evalNumberInfixExpression(ie *ast.InfixExpression, leftValue, rightValue float64) object.Object {
	switch ie.Token.Type {
	case token.PLUS:
		return &object.Number{Value: leftValue + rightValue}
	case token.MINUS:
		return &object.Number{Value: leftValue - rightValue}
	case token.ASTERISK:
		return &object.Number{Value: leftValue * rightValue}
	case token.SLASH:
		if rightValue == 0 {
			return newError(ie, ie.Token.Line, "Division by zero.")
		}
		return &object.Number{Value: leftValue / rightValue}
	case token.LT:
		return nativeBoolToBooleanObject(leftValue < rightValue)
	case token.LT_EQ:
		return nativeBoolToBooleanObject(leftValue <= rightValue)
	case token.GT:
		return nativeBoolToBooleanObject(leftValue > rightValue)
	case token.GT_EQ:
		return nativeBoolToBooleanObject(leftValue >= rightValue)
	default:
		return newError(ie, ie.Token.Line, "unknown operator: %s %s %s", object.NUMBER_OBJ, ie.Operator, object.NUMBER_OBJ)
	}
}

// isEqual never fails: values of different types are simply unequal.
func isEqual(left, right object.Object) bool {
	switch l := left.(type) {
	case *object.Number:
		r, ok := right.(*object.Number)
		return ok && l.Value == r.Value
	case *object.String:
		r, ok := right.(*object.String)
		return ok && l.Value == r.Value
	case *object.Boolean:
		r, ok := right.(*object.Boolean)
		return ok && l.Value == r.Value
	case *object.Nil:
		_, ok := right.(*object.Nil)
		return ok
	default:
		return left == right
	}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// nil and false are falsey, everything else (0 and "" included) is truthy
func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Nil:
		return false
	case *object.Boolean:
		return obj.Value
	default:
		return true
	}
}

func newError(node ast.Node, line int, format string, a ...interface{}) *object.Error {
	return &object.Error{Node: node, Line: line, Message: fmt.Sprintf(format, a...)}
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
