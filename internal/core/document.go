package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document is the record shape as stored by the document store. Fields
// are loosely typed; Record converts and validates them once.
type Document struct {
	ID           string   `json:"_id"`
	Type         string   `json:"type"`
	Amount       *float64 `json:"amount"`
	CategoryID   string   `json:"categoryId"`
	CategoryName string   `json:"categoryName"`
	CategoryIcon string   `json:"categoryIcon"`
	Date         string   `json:"date"`      // YYYY-MM-DD
	Timestamp    int64    `json:"timestamp"` // epoch milliseconds
	Remark       *string  `json:"remark,omitempty"`
}

// Record converts d into a validated Record. A missing amount becomes zero
// and a missing remark becomes empty.
func (d Document) Record() (Record, error) {
	kind, err := ParseKind(d.Type)
	if err != nil {
		return Record{}, fmt.Errorf("document %s: %w", d.ID, err)
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return Record{}, fmt.Errorf("document %s: %w", d.ID, err)
	}

	var amount Money
	if d.Amount != nil {
		amount, err = NewMoney(decimal.NewFromFloat(*d.Amount))
		if err != nil {
			return Record{}, fmt.Errorf("document %s: %w", d.ID, err)
		}
	}
	remark := ""
	if d.Remark != nil {
		remark = strings.TrimSpace(*d.Remark)
	}

	r := Record{
		ID:           d.ID,
		Kind:         kind,
		Amount:       amount,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		CategoryIcon: d.CategoryIcon,
		Date:         date,
		Timestamp:    time.UnixMilli(d.Timestamp).UTC(),
		Remark:       remark,
	}
	if err := r.Validate(); err != nil {
		return Record{}, fmt.Errorf("document %s: %w", d.ID, err)
	}
	return r, nil
}

// DocumentOf is the inverse of Document.Record.
func DocumentOf(r Record) Document {
	amount, _ := r.Amount.Decimal().Float64()
	remark := r.Remark
	return Document{
		ID:           r.ID,
		Type:         string(r.Kind),
		Amount:       &amount,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		CategoryIcon: r.CategoryIcon,
		Date:         r.Date.String(),
		Timestamp:    r.Timestamp.UnixMilli(),
		Remark:       &remark,
	}
}

// Records converts a batch of documents, stopping at the first bad one.
func Records(docs []Document) ([]Record, error) {
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		r, err := d.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
