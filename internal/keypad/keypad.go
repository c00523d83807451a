// Package keypad implements the amount keypad: an incremental editor for
// chained addition/subtraction and the evaluator that reduces it to an amount.
package keypad

import (
	"strings"

	"jizhang/internal/core"
)

// Placeholder is the text shown before the first digit is typed.
const Placeholder = "0.00"

// State is the position of the editor in the expression grammar.
type State int

const (
	// AwaitingFirstDigit shows the placeholder; a digit replaces it.
	AwaitingFirstDigit State = iota
	// EnteringOperand is typing digits or the decimal point of an operand.
	EnteringOperand
	// AwaitingOperand follows an operator; another operator is rejected.
	AwaitingOperand
)

func (s State) String() string {
	switch s {
	case AwaitingFirstDigit:
		return "awaiting-first-digit"
	case EnteringOperand:
		return "entering-operand"
	case AwaitingOperand:
		return "awaiting-operand"
	}
	return "unknown"
}

// Input is the keypad text together with its editor state. The zero value
// is not usable; start from New or FromString.
type Input struct {
	text       string
	state      State
	operandDot bool // current operand already holds a '.'
	pending    bool // text holds at least one operator
}

// New returns an editor showing the placeholder.
func New() Input {
	return Input{text: Placeholder, state: AwaitingFirstDigit, operandDot: true}
}

// FromString restores the editor state for previously displayed text.
// Empty text yields the placeholder.
func FromString(s string) Input {
	if s == "" || s == Placeholder {
		return New()
	}
	in := Input{text: s, state: EnteringOperand}
	last := s[len(s)-1]
	if isOperator(last) {
		in.state = AwaitingOperand
	}
	if i := strings.LastIndexAny(s, "+-"); i >= 0 {
		in.pending = true
		in.operandDot = strings.Contains(s[i+1:], ".")
	} else {
		in.operandDot = strings.Contains(s, ".")
	}
	return in
}

func (in Input) String() string { return in.text }

func (in Input) State() State { return in.state }

// HasPendingOperator reports whether the text still needs evaluating;
// keypads show "=" instead of "done" while it is true.
func (in Input) HasPendingOperator() bool { return in.pending }

// Append applies one key. Keys outside 0-9 . + - and keys the grammar
// rejects leave the input unchanged.
func (in Input) Append(key byte) Input {
	switch {
	case isDigit(key):
		if in.state == AwaitingFirstDigit {
			return Input{text: string(key), state: EnteringOperand}
		}
		in.text += string(key)
		in.state = EnteringOperand
	case key == '.':
		if in.operandDot {
			return in
		}
		in.text += "."
		in.operandDot = true
		in.state = EnteringOperand
	case isOperator(key):
		if in.state == AwaitingOperand {
			return in
		}
		in.text += string(key)
		in.state = AwaitingOperand
		in.operandDot = false
		in.pending = true
	}
	return in
}

// Backspace removes the last character. Removing the only character, or
// backspacing the placeholder, yields the placeholder.
func (in Input) Backspace() Input {
	if in.state == AwaitingFirstDigit || len(in.text) <= 1 {
		return New()
	}
	return FromString(in.text[:len(in.text)-1])
}

// Evaluate reduces the current text to an amount.
func (in Input) Evaluate() (core.Money, error) {
	return Evaluate(in.text)
}

// AppendKey applies key to current and reports whether an operator is pending.
func AppendKey(current string, key string) (string, bool) {
	in := FromString(current)
	if len(key) == 1 {
		in = in.Append(key[0])
	}
	return in.String(), in.HasPendingOperator()
}

// Backspace removes the last character of current and reports whether an
// operator is still pending.
func Backspace(current string) (string, bool) {
	in := FromString(current).Backspace()
	return in.String(), in.HasPendingOperator()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isOperator(c byte) bool { return c == '+' || c == '-' }
