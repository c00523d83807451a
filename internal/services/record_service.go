// Package services orchestrates the record stores and the ledger engines
// on behalf of the HTTP API and the command line tools.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jizhang/internal/core"
	"jizhang/internal/keypad"
	"jizhang/internal/log"
	"jizhang/internal/records"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrZeroAmount      = errors.New("amount must be greater than zero")
)

// RecordInput is a record as typed by the user. Amount is a keypad
// expression such as "12.5+3"; an empty Date means today.
type RecordInput struct {
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	CategoryID string `json:"categoryId"`
	Date       string `json:"date"`
	Remark     string `json:"remark"`
}

// RecordService creates, edits and removes records.
type RecordService struct {
	store  records.Store
	logger *log.StructuredLogger
	now    func() time.Time
}

func NewRecordService(store records.Store, logger *log.Logger) *RecordService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &RecordService{
		store:  store,
		logger: log.NewStructuredLogger(logger.WithComponent(log.ComponentRecords)),
		now:    time.Now,
	}
}

// Create evaluates the amount expression, fills the category from the
// catalog and stores the record under a new id.
func (s *RecordService) Create(ctx context.Context, user string, in RecordInput) (core.Record, error) {
	rec, err := s.build(in)
	if err != nil {
		return core.Record{}, err
	}
	id, err := s.store.Create(ctx, user, rec)
	if err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}
	rec.ID = id

	s.logger.LogRecordSaved(ctx, log.OpCreate, user, rec.ID, rec.Kind.String(),
		rec.Amount.Cents, rec.CategoryName, rec.Date.String())
	return rec, nil
}

// Update replaces an existing record. The time of day of the original
// entry is kept so its position inside the day does not move.
func (s *RecordService) Update(ctx context.Context, user, id string, in RecordInput) (core.Record, error) {
	existing, err := s.store.Get(ctx, user, id)
	if err != nil {
		return core.Record{}, err
	}
	rec, err := s.build(in)
	if err != nil {
		return core.Record{}, err
	}
	rec.ID = existing.ID
	rec.Timestamp = stamp(rec.Date, existing.Timestamp)

	if err := s.store.Update(ctx, user, rec); err != nil {
		return core.Record{}, fmt.Errorf("update record: %w", err)
	}
	s.logger.LogRecordSaved(ctx, log.OpUpdate, user, rec.ID, rec.Kind.String(),
		rec.Amount.Cents, rec.CategoryName, rec.Date.String())
	return rec, nil
}

func (s *RecordService) Delete(ctx context.Context, user, id string) error {
	if err := s.store.Delete(ctx, user, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *RecordService) Get(ctx context.Context, user, id string) (core.Record, error) {
	return s.store.Get(ctx, user, id)
}

func (s *RecordService) build(in RecordInput) (core.Record, error) {
	kind, err := core.ParseKind(in.Kind)
	if err != nil {
		return core.Record{}, err
	}

	amount, err := keypad.Evaluate(in.Amount)
	if err != nil {
		return core.Record{}, err
	}
	if amount.IsZero() {
		return core.Record{}, ErrZeroAmount
	}

	category, ok := core.FindCategory(kind, strings.TrimSpace(in.CategoryID))
	if !ok {
		return core.Record{}, fmt.Errorf("%w: %q for %s", ErrUnknownCategory, in.CategoryID, kind)
	}

	now := s.now()
	date := core.DateOf(now)
	if strings.TrimSpace(in.Date) != "" {
		if date, err = core.ParseDate(in.Date); err != nil {
			return core.Record{}, err
		}
	}

	rec := core.Record{
		Kind:         kind,
		Amount:       amount,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		CategoryIcon: category.Icon,
		Date:         date,
		Timestamp:    stamp(date, now),
		Remark:       strings.TrimSpace(in.Remark),
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

// stamp places the clock time of t on date d.
func stamp(d core.Date, t time.Time) time.Time {
	return time.Date(d.Year(), time.Month(d.Month()), d.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, t.Location()).UTC()
}
