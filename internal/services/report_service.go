package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"jizhang/internal/cache"
	"jizhang/internal/core"
	"jizhang/internal/ledger"
	"jizhang/internal/log"
	"jizhang/internal/period"
	"jizhang/internal/ranking"
	"jizhang/internal/records"
)

// ReportOptions configures a ReportService. Zero values pick defaults.
type ReportOptions struct {
	TopN   int
	Cache  cache.Cache[[]string] // per-user category order
	Logger *log.Logger
	Now    func() time.Time
}

// Overview is the landing view: the current month and how long the user
// has been keeping books.
type Overview struct {
	Month       ledger.Summary `json:"month"`
	DaysTracked int            `json:"daysTracked"`
	Since       *core.Date     `json:"since"`
}

// ReportService reads snapshots from the store and hands them to the
// engines. Nothing computed here is cached; only category preferences are.
type ReportService struct {
	store  records.Store
	topN   int
	order  cache.Cache[[]string]
	logger *log.Logger
	now    func() time.Time
}

func NewReportService(store records.Store, opts ReportOptions) *ReportService {
	if opts.TopN <= 0 {
		opts.TopN = ranking.DefaultTopN
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewLRUCache[[]string](100, 10*time.Minute)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReportService{
		store:  store,
		topN:   opts.TopN,
		order:  opts.Cache,
		logger: opts.Logger.WithComponent(log.ComponentReports),
		now:    opts.Now,
	}
}

// Today is the current calendar date in the service clock's location.
func (s *ReportService) Today() core.Date {
	return core.DateOf(s.now())
}

// Periods lists the five selectable periods ending with the one holding
// today.
func (s *ReportService) Periods(kind period.Kind, today core.Date) ([]period.Period, error) {
	return period.Resolve(kind, today)
}

// Summary aggregates the period of the given kind containing date. One
// range query covers the period and the one before it.
func (s *ReportService) Summary(ctx context.Context, user string, kind period.Kind, date core.Date, g ledger.Grouping) (ledger.Summary, error) {
	p, err := period.Containing(kind, date)
	if err != nil {
		return ledger.Summary{}, err
	}
	recs, err := s.store.ListRange(ctx, user, period.Previous(p).Start, p.End)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("load summary records: %w", err)
	}

	summary := ledger.Aggregate(recs, p, g)
	fields := log.NewFields().
		WithUser(user).
		WithOperation(log.OpAggregate).
		WithPeriod(string(p.Kind), p.Start.String(), p.End.String()).
		WithCount(len(recs))
	s.logger.DebugContext(ctx, "Summary computed", fields.ToSlice()...)
	return summary, nil
}

// Ranking ranks the categories of one record kind inside the period. A
// non-positive topN uses the configured default.
func (s *ReportService) Ranking(ctx context.Context, user string, kind period.Kind, date core.Date, recordKind core.Kind, topN int) ([]ranking.Entry, error) {
	if !recordKind.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidKind, recordKind)
	}
	p, err := period.Containing(kind, date)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.ListRange(ctx, user, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("load ranking records: %w", err)
	}
	if topN <= 0 {
		topN = s.topN
	}
	return ranking.RankKind(recs, recordKind, topN), nil
}

// Chart builds the trend series for one record kind inside the period.
func (s *ReportService) Chart(ctx context.Context, user string, kind period.Kind, date core.Date, recordKind core.Kind) (ledger.Chart, error) {
	if !recordKind.Valid() {
		return ledger.Chart{}, fmt.Errorf("%w: %q", core.ErrInvalidKind, recordKind)
	}
	p, err := period.Containing(kind, date)
	if err != nil {
		return ledger.Chart{}, err
	}
	recs, err := s.store.ListRange(ctx, user, p.Start, p.End)
	if err != nil {
		return ledger.Chart{}, fmt.Errorf("load chart records: %w", err)
	}
	return ledger.BuildChart(recs, p, recordKind), nil
}

// MonthlyReport groups one calendar year by month and compares it with
// the year before.
func (s *ReportService) MonthlyReport(ctx context.Context, user string, year int) (ledger.Summary, error) {
	recs, err := s.store.ListRange(ctx, user, period.ForYear(year-1).Start, period.ForYear(year).End)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("load monthly report records: %w", err)
	}
	return ledger.MonthlyReport(recs, year), nil
}

// YearlyReport totals the whole history of the user.
func (s *ReportService) YearlyReport(ctx context.Context, user string) (ledger.History, error) {
	recs, err := s.store.ListAll(ctx, user)
	if err != nil {
		return ledger.History{}, fmt.Errorf("load yearly report records: %w", err)
	}
	return ledger.YearlyReport(recs), nil
}

// Overview fetches the current month and the earliest record concurrently.
func (s *ReportService) Overview(ctx context.Context, user string) (Overview, error) {
	now := s.now()
	today := core.DateOf(now)

	var (
		out      Overview
		earliest *core.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		month, err := s.Summary(gctx, user, period.Month, today, ledger.ByDay)
		if err != nil {
			return err
		}
		out.Month = month
		return nil
	})
	g.Go(func() error {
		rec, err := s.store.Earliest(gctx, user)
		if err != nil {
			return fmt.Errorf("load earliest record: %w", err)
		}
		earliest = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	out.DaysTracked = ledger.DaysTracked(earliest, now)
	if earliest != nil {
		since := earliest.Date
		out.Since = &since
	}
	return out, nil
}

// Categories returns the catalog for kind in the user's preferred order.
func (s *ReportService) Categories(ctx context.Context, user string, kind core.Kind) ([]core.Category, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
	}
	key := orderKey(user, kind)
	order, ok := s.order.Get(key)
	if !ok {
		var err error
		order, err = s.store.CategoryOrder(ctx, user, kind)
		if err != nil {
			return nil, fmt.Errorf("load category order: %w", err)
		}
		s.order.Set(key, order)
	}
	return core.OrderCategories(core.DefaultCategories(kind), order), nil
}

// SetCategoryOrder stores a new order. Every id must belong to the catalog
// of kind.
func (s *ReportService) SetCategoryOrder(ctx context.Context, user string, kind core.Kind, ids []string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
	}
	for _, id := range ids {
		if _, ok := core.FindCategory(kind, id); !ok {
			return fmt.Errorf("%w: %q for %s", ErrUnknownCategory, id, kind)
		}
	}
	if err := s.store.SetCategoryOrder(ctx, user, kind, ids); err != nil {
		return fmt.Errorf("save category order: %w", err)
	}
	s.order.Delete(orderKey(user, kind))
	return nil
}

func orderKey(user string, kind core.Kind) string {
	return user + "|" + string(kind)
}
