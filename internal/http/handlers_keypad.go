package http

import (
	"net/http"

	"jizhang/internal/keypad"
	"jizhang/internal/log"
)

type keypadRequest struct {
	Current    string `json:"current"`
	Key        string `json:"key,omitempty"`
	Expression string `json:"expression,omitempty"`
}

type keypadResponse struct {
	Value           string `json:"value"`
	State           string `json:"state"`
	PendingOperator bool   `json:"pendingOperator"`
}

func keypadState(in keypad.Input) keypadResponse {
	return keypadResponse{
		Value:           in.String(),
		State:           in.State().String(),
		PendingOperator: in.HasPendingOperator(),
	}
}

// handleKeypadAppend applies one key press to the displayed text.
func (s *Server) handleKeypadAppend(w http.ResponseWriter, r *http.Request) {
	var req keypadRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	in := keypad.FromString(req.Current)
	if len(req.Key) == 1 {
		in = in.Append(req.Key[0])
	}
	writeJSON(w, http.StatusOK, keypadState(in))
}

func (s *Server) handleKeypadBackspace(w http.ResponseWriter, r *http.Request) {
	var req keypadRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	writeJSON(w, http.StatusOK, keypadState(keypad.FromString(req.Current).Backspace()))
}

// handleKeypadEvaluate reduces an expression to an amount. Expression
// falls back to current when empty.
func (s *Server) handleKeypadEvaluate(w http.ResponseWriter, r *http.Request) {
	var req keypadRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	expr := req.Expression
	if expr == "" {
		expr = req.Current
	}
	amount, err := keypad.Evaluate(expr)
	if err != nil {
		writeError(w, r, log.OpEvaluate, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"amount":     amount,
		"value":      amount.String(),
		"amountText": amount.Formatted(),
	})
}
