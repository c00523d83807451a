// Package memory is the in-process record store used by default and in
// tests. Data is lost on restart.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"jizhang/internal/core"
	"jizhang/internal/records"
)

type Store struct {
	mu      sync.Mutex
	items   map[string]map[string]core.Record // user -> id -> record
	ordered map[string]map[core.Kind][]string // user -> kind -> category ids
}

func New() *Store {
	return &Store{
		items:   make(map[string]map[string]core.Record),
		ordered: make(map[string]map[core.Kind][]string),
	}
}

// NewFromFile seeds a store for user from a JSON array of exported
// documents. A missing file yields an empty store.
func NewFromFile(user, path string) (*Store, error) {
	s := New()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var docs []core.Document
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	if err := s.Seed(user, docs); err != nil {
		return nil, err
	}
	return s, nil
}

// Seed converts and stores documents for user, replacing records with the
// same id.
func (s *Store) Seed(user string, docs []core.Document) error {
	rs, err := core.Records(docs)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.userItems(user)[r.ID] = r
	}
	return nil
}

func (s *Store) ListRange(_ context.Context, user string, start, end core.Date) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, 0)
	for _, r := range s.items[user] {
		if !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) ListAll(_ context.Context, user string) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, 0, len(s.items[user]))
	for _, r := range s.items[user] {
		out = append(out, r)
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) Earliest(_ context.Context, user string) (*core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first *core.Record
	for _, r := range s.items[user] {
		if first == nil || earlier(r, *first) {
			r := r
			first = &r
		}
	}
	return first, nil
}

func (s *Store) Get(_ context.Context, user, id string) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[user][id]
	if !ok {
		return core.Record{}, fmt.Errorf("get %s: %w", id, records.ErrNotFound)
	}
	return r, nil
}

func (s *Store) Create(_ context.Context, user string, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.userItems(user)
	if _, ok := items[r.ID]; ok {
		return "", fmt.Errorf("create %s: %w", r.ID, records.ErrConflict)
	}
	items[r.ID] = r
	return r.ID, nil
}

func (s *Store) Update(_ context.Context, user string, r core.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[user]
	if _, ok := items[r.ID]; !ok {
		return fmt.Errorf("update %s: %w", r.ID, records.ErrNotFound)
	}
	items[r.ID] = r
	return nil
}

func (s *Store) Delete(_ context.Context, user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[user]
	if _, ok := items[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, records.ErrNotFound)
	}
	delete(items, id)
	return nil
}

func (s *Store) CategoryOrder(_ context.Context, user string, kind core.Kind) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ordered[user][kind]...), nil
}

func (s *Store) SetCategoryOrder(_ context.Context, user string, kind core.Kind, ids []string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ordered[user] == nil {
		s.ordered[user] = make(map[core.Kind][]string)
	}
	s.ordered[user][kind] = append([]string(nil), ids...)
	return nil
}

func (s *Store) userItems(user string) map[string]core.Record {
	items, ok := s.items[user]
	if !ok {
		items = make(map[string]core.Record)
		s.items[user] = items
	}
	return items
}

func earlier(a, b core.Record) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.ID < b.ID
}

func sortRecords(rs []core.Record) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Less(rs[j]) })
}

var _ records.Store = (*Store)(nil)
