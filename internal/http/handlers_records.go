package http

import (
	"net/http"

	"jizhang/internal/core"
	"jizhang/internal/log"
	"jizhang/internal/services"
)

// recordResponse is the wire form of a record.
type recordResponse struct {
	ID           string     `json:"id"`
	Kind         core.Kind  `json:"kind"`
	Amount       core.Money `json:"amount"`
	AmountText   string     `json:"amountText"`
	CategoryID   string     `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	CategoryIcon string     `json:"categoryIcon"`
	Date         core.Date  `json:"date"`
	Timestamp    int64      `json:"timestamp"`
	Remark       string     `json:"remark"`
}

func toRecordResponse(r core.Record) recordResponse {
	return recordResponse{
		ID:           r.ID,
		Kind:         r.Kind,
		Amount:       r.Amount,
		AmountText:   r.Amount.Formatted(),
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		CategoryIcon: r.CategoryIcon,
		Date:         r.Date,
		Timestamp:    r.Timestamp.UnixMilli(),
		Remark:       r.Remark,
	}
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request, user string) {
	var in services.RecordInput
	if err := DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	rec, err := s.records.Create(r.Context(), user, in)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/records/"+rec.ID).
		Body(toRecordResponse(rec)).
		Write(w)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request, user string) {
	rec, err := s.records.Get(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request, user string) {
	var in services.RecordInput
	if err := DecodeJSON(w, r, &in); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	rec, err := s.records.Update(r.Context(), user, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, user string) {
	if err := s.records.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
