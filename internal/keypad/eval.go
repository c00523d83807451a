package keypad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"jizhang/internal/core"
)

// ErrParse is returned when an expression has no operand to evaluate. Out
// of range results and operands outside the keypad alphabet wrap
// core.ErrInvalidAmount instead.
var ErrParse = errors.New("no operand to evaluate")

// ParseError reports the expression that could not be evaluated.
type ParseError struct {
	Expr string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Expr, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Evaluate computes a chained +/- expression left to right.
//
// A single trailing operator is dropped. The result is clamped to zero and
// rounded half-up to two fractional digits. Arithmetic is exact in base 10;
// the conversion to cents happens once, at the end.
//
// Examples:
//
//	Evaluate("10+20-5") -> 25.00
//	Evaluate("10-20")   -> 0.00
//	Evaluate("1.005+")  -> 1.01
func Evaluate(expr string) (core.Money, error) {
	s := strings.TrimSpace(expr)
	if n := len(s); n > 0 && isOperator(s[n-1]) {
		s = s[:n-1]
	}
	if !strings.ContainsAny(s, "0123456789") {
		return core.Money{}, &ParseError{Expr: expr, Err: ErrParse}
	}

	operands, operators := split(s)
	result, err := parseOperand(operands[0])
	if err != nil {
		return core.Money{}, &ParseError{Expr: expr, Err: err}
	}
	for i, op := range operators {
		v, err := parseOperand(operands[i+1])
		if err != nil {
			return core.Money{}, &ParseError{Expr: expr, Err: err}
		}
		if op == '+' {
			result = result.Add(v)
		} else {
			result = result.Sub(v)
		}
	}

	if result.IsNegative() {
		return core.Money{}, nil
	}
	m, err := core.NewMoney(result)
	if err != nil {
		return core.Money{}, &ParseError{Expr: expr, Err: err}
	}
	return m, nil
}

// split cuts s at every operator. There is always one more operand than
// operators.
func split(s string) (operands []string, operators []byte) {
	start := 0
	for i := 0; i < len(s); i++ {
		if isOperator(s[i]) {
			operands = append(operands, s[start:i])
			operators = append(operators, s[i])
			start = i + 1
		}
	}
	operands = append(operands, s[start:])
	return operands, operators
}

// parseOperand reads one operand. An operand with no digits counts as zero.
// Only digits and a dot are accepted; exponents and signs never reach the
// decimal parser.
func parseOperand(s string) (decimal.Decimal, error) {
	if strings.Trim(s, "0123456789.") != "" {
		return decimal.Zero, fmt.Errorf("operand %q: %w", s, core.ErrInvalidAmount)
	}
	if strings.Trim(s, ".") == "" && strings.Count(s, ".") <= 1 {
		return decimal.Zero, nil
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("operand %q: %w", s, core.ErrInvalidAmount)
	}
	return d, nil
}
