package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MathTool evaluates arithmetic expressions. The expression grammar covers
// the usual operators (+ - * / % ^), parentheses, unary minus, a handful of
// functions, and the constants pi and e.
type MathTool struct{}

// NewMathTool creates the math tool.
func NewMathTool() *MathTool { return &MathTool{} }

func (t *MathTool) Name() string { return "math" }

func (t *MathTool) Description() string {
	return "Performs mathematical calculations. Input should be a mathematical expression as a string."
}

func (t *MathTool) Schema() map[string]ArgSpec {
	return map[string]ArgSpec{
		"expression": {
			Description: "Mathematical expression to evaluate",
			Type:        "string",
			Required:    true,
		},
	}
}

func (t *MathTool) Execute(_ context.Context, args map[string]any) (string, error) {
	expr, _ := args["expression"].(string)
	if strings.TrimSpace(expr) == "" {
		return "", &ToolError{Tool: t.Name(), Message: "expression is empty"}
	}
	result, err := evalExpression(expr)
	if err != nil {
		return "", &ToolError{Tool: t.Name(), Message: fmt.Sprintf("error evaluating expression: %v", err)}
	}
	return fmt.Sprintf("Result of %s = %s", expr, formatNumber(result)), nil
}

// formatNumber renders integers without a trailing ".0".
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// evalExpression parses and evaluates an arithmetic expression with a small
// recursive-descent parser.
//
// Grammar (standard precedence, ^ binds tightest and is right-associative):
//
//	expr   = term   { ("+" | "-") term }
//	term   = power  { ("*" | "/" | "%") power }
//	power  = unary  [ "^" power ]
//	unary  = [ "-" ] atom
//	atom   = number | const | func "(" expr { "," expr } ")" | "(" expr ")"
func evalExpression(input string) (float64, error) {
	p := &exprParser{input: input}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("result is not a finite number")
	}
	return v, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		case '%':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		exp, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (float64, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isAlpha(c):
		return p.parseIdent()
	case c == 0:
		return 0, fmt.Errorf("unexpected end of expression")
	default:
		return 0, fmt.Errorf("unexpected %q at position %d", c, p.pos)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' ||
			((c == '+' || c == '-') && p.pos > start && (p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) parseIdent() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (isAlpha(p.input[p.pos]) || p.input[p.pos] >= '0' && p.input[p.pos] <= '9') {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])

	switch name {
	case "pi":
		return math.Pi, nil
	case "e":
		return math.E, nil
	}

	if p.peek() != '(' {
		return 0, fmt.Errorf("unknown identifier %q", name)
	}
	p.pos++
	args := []float64{}
	if p.peek() != ')' {
		for {
			v, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			args = append(args, v)
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
	}
	if p.peek() != ')' {
		return 0, fmt.Errorf("missing closing parenthesis in call to %q", name)
	}
	p.pos++

	return applyFunc(name, args)
}

func applyFunc(name string, args []float64) (float64, error) {
	unary := func(fn func(float64) float64) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
		}
		return fn(args[0]), nil
	}
	switch name {
	case "sqrt":
		return unary(math.Sqrt)
	case "abs":
		return unary(math.Abs)
	case "sin":
		return unary(math.Sin)
	case "cos":
		return unary(math.Cos)
	case "tan":
		return unary(math.Tan)
	case "log":
		return unary(math.Log)
	case "log10":
		return unary(math.Log10)
	case "floor":
		return unary(math.Floor)
	case "ceil":
		return unary(math.Ceil)
	case "round":
		return unary(math.Round)
	case "min":
		if len(args) < 2 {
			return 0, fmt.Errorf("min expects at least 2 arguments")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Min(v, a)
		}
		return v, nil
	case "max":
		if len(args) < 2 {
			return 0, fmt.Errorf("max expects at least 2 arguments")
		}
		v := args[0]
		for _, a := range args[1:] {
			v = math.Max(v, a)
		}
		return v, nil
	case "pow":
		if len(args) != 2 {
			return 0, fmt.Errorf("pow expects 2 arguments, got %d", len(args))
		}
		return math.Pow(args[0], args[1]), nil
	default:
		return 0, fmt.Errorf("unknown function %q", name)
	}
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
