package keypad

import (
	"errors"
	"testing"

	"jizhang/internal/core"
)

func TestAppendKey(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		key         string
		want        string
		wantPending bool
	}{
		{name: "digit replaces placeholder", current: "0.00", key: "5", want: "5"},
		{name: "operator after digit", current: "5", key: "+", want: "5+", wantPending: true},
		{name: "consecutive operator rejected", current: "5+", key: "+", want: "5+", wantPending: true},
		{name: "minus after plus rejected", current: "5+", key: "-", want: "5+", wantPending: true},
		{name: "operator on placeholder", current: "0.00", key: "-", want: "0.00-", wantPending: true},
		{name: "dot on placeholder rejected", current: "0.00", key: ".", want: "0.00"},
		{name: "first dot accepted", current: "12", key: ".", want: "12."},
		{name: "second dot rejected", current: "12.5", key: ".", want: "12.5"},
		{name: "dot allowed in next operand", current: "12.5+3", key: ".", want: "12.5+3.", wantPending: true},
		{name: "dot right after operator", current: "12.5+", key: ".", want: "12.5+.", wantPending: true},
		{name: "digit after operator", current: "7-", key: "2", want: "7-2", wantPending: true},
		{name: "zero after digit", current: "1", key: "0", want: "10"},
		{name: "unknown key ignored", current: "1", key: "*", want: "1"},
		{name: "multi-char key ignored", current: "1", key: "12", want: "1"},
		{name: "empty current starts at placeholder", current: "", key: "3", want: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pending := AppendKey(tt.current, tt.key)
			if got != tt.want {
				t.Errorf("AppendKey(%q, %q) = %q, want %q", tt.current, tt.key, got, tt.want)
			}
			if pending != tt.wantPending {
				t.Errorf("AppendKey(%q, %q) pending = %v, want %v", tt.current, tt.key, pending, tt.wantPending)
			}
		})
	}
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		current     string
		want        string
		wantPending bool
	}{
		{"0.00", "0.00", false},
		{"12", "1", false},
		{"1", "0.00", false},
		{"", "0.00", false},
		{"5+", "5", false},
		{"5+3", "5+", true},
		{"1.5", "1.", false},
	}
	for _, tt := range tests {
		got, pending := Backspace(tt.current)
		if got != tt.want || pending != tt.wantPending {
			t.Errorf("Backspace(%q) = %q, %v; want %q, %v", tt.current, got, pending, tt.want, tt.wantPending)
		}
	}
}

func TestBackspaceRestoresDotRule(t *testing.T) {
	// "1.5" -> "1." still has a dot in the operand, "1" does not.
	in := FromString("1.5").Backspace()
	if got := in.Append('.').String(); got != "1." {
		t.Fatalf("dot should still be rejected, got %q", got)
	}
	in = in.Backspace()
	if got := in.Append('.').String(); got != "1." {
		t.Fatalf("dot should be accepted again, got %q", got)
	}
}

func TestInputStates(t *testing.T) {
	in := New()
	if in.State() != AwaitingFirstDigit {
		t.Fatalf("new input state = %v", in.State())
	}
	in = in.Append('4')
	if in.State() != EnteringOperand {
		t.Fatalf("after digit state = %v", in.State())
	}
	in = in.Append('-')
	if in.State() != AwaitingOperand || !in.HasPendingOperator() {
		t.Fatalf("after operator state = %v pending = %v", in.State(), in.HasPendingOperator())
	}
	in = in.Append('1')
	got, err := in.Evaluate()
	if err != nil || got.String() != "3.00" {
		t.Fatalf("Evaluate(%q) = %s, %v", in, got, err)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"10+20-5", "25.00"},
		{"10-20", "0.00"}, // clamped
		{"5+", "5.00"},    // trailing operator dropped
		{"5-", "5.00"},
		{"0.00", "0.00"},
		{"0.00+7", "7.00"},
		{"1.005", "1.01"}, // half-up
		{"1.004", "1.00"},
		{"0.125+0.125", "0.25"},
		{"2.675", "2.68"},
		{"0.1+0.2", "0.30"},
		{"12.", "12.00"},
		{"3+.5", "3.50"},
		{"-5+8", "3.00"},
		{"100-30-20+0.5", "50.50"},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.expr)
		if err != nil {
			t.Errorf("Evaluate(%q) error: %v", tt.expr, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Evaluate(%q) = %s, want %s", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateRepeatedChainHasNoDrift(t *testing.T) {
	in := New()
	for i := 0; i < 100; i++ {
		in = in.Append('0').Append('.').Append('1').Append('+')
	}
	got, err := in.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.Cents != 1000 {
		t.Fatalf("100 x 0.1 = %d cents, want 1000", got.Cents)
	}
}

func TestEvaluateRejectsInvalidAmounts(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"exponent", "1e3"},
		{"signed exponent", "5e+2"},
		{"huge exponent", "1e9999999"},
		{"tiny exponent", "1e-9999999"},
		{"letters", "12abc"},
		{"twenty digits", "99999999999999999999"},
		{"just past int64 cents", "92233720368547758.08"},
		{"sum past int64 cents", "92233720368547758+1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			if !errors.Is(err, core.ErrInvalidAmount) {
				t.Fatalf("Evaluate(%q) = %s, %v, want ErrInvalidAmount", tt.expr, got, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Expr != tt.expr {
				t.Errorf("Evaluate(%q) should return *ParseError, got %T", tt.expr, err)
			}
		})
	}
}

func TestEvaluateLargestAmount(t *testing.T) {
	got, err := Evaluate("92233720368547758.07")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.String() != "92233720368547758.07" {
		t.Fatalf("got %s", got)
	}
}

func TestEvaluateOperatorsOnly(t *testing.T) {
	for _, expr := range []string{"", "+", "-", "."} {
		_, err := Evaluate(expr)
		if !errors.Is(err, ErrParse) {
			t.Errorf("Evaluate(%q) = %v, want ErrParse", expr, err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Expr != expr {
			t.Errorf("Evaluate(%q) should return *ParseError, got %T", expr, err)
		}
	}
}

func TestEvaluateNeverFailsOnKeypadInput(t *testing.T) {
	keys := []byte("0123456789.+-")
	// Walk a deterministic pseudo-random key sequence.
	in := New()
	seed := uint32(7)
	for i := 0; i < 2000; i++ {
		seed = seed*1103515245 + 12345
		k := keys[int(seed>>16)%len(keys)]
		if seed%17 == 0 {
			in = in.Backspace()
		} else {
			in = in.Append(k)
		}
		got, err := in.Evaluate()
		if err != nil && !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("Evaluate(%q) failed after key %q: %v", in, k, err)
		}
		if got.Cents < 0 {
			t.Fatalf("Evaluate(%q) = %s, want non-negative", in, got)
		}
	}
}
