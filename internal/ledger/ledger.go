// Package ledger reduces a snapshot of records to period totals, grouped
// buckets and a period-over-period comparison. Every function is pure: the
// result depends only on its arguments and nothing is cached.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"jizhang/internal/core"
	"jizhang/internal/period"
)

// Grouping selects the bucket key used by Aggregate.
type Grouping string

const (
	ByDay   Grouping = "day"
	ByMonth Grouping = "month"
	ByYear  Grouping = "year"
)

// Direction of a period-over-period change.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
	Same     Direction = "same"
)

var weekdays = [...]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

type (
	// Totals holds the two kind sums and their difference, raw and formatted.
	Totals struct {
		Income      core.Money `json:"income"`
		Expense     core.Money `json:"expense"`
		Balance     core.Money `json:"balance"`
		IncomeText  string     `json:"incomeText"`
		ExpenseText string     `json:"expenseText"`
		BalanceText string     `json:"balanceText"`
	}

	// Bucket is one group of records sharing a day, month or year key.
	Bucket struct {
		Key       string   `json:"key"`
		Label     string   `json:"label"`
		Weekday   string   `json:"weekday,omitempty"`
		Net       string   `json:"net,omitempty"`
		Totals    Totals   `json:"totals"`
		RecordIDs []string `json:"recordIds"`
	}

	// Comparison is the change of the balance against the previous period.
	// Percent is nil when there is nothing meaningful to show.
	Comparison struct {
		Percent   *decimal.Decimal `json:"percent"`
		Direction Direction        `json:"direction"`
		Text      string           `json:"text"`
	}

	Summary struct {
		Period     period.Period `json:"period"`
		Totals     Totals        `json:"totals"`
		Buckets    []Bucket      `json:"buckets"`
		Comparison Comparison    `json:"comparison"`
	}
)

// ParseGrouping parses "day", "month" or "year".
func ParseGrouping(s string) (Grouping, error) {
	g := Grouping(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case ByDay, ByMonth, ByYear:
		return g, nil
	}
	return "", fmt.Errorf("unknown grouping %q", s)
}

// Aggregate totals the records dated inside p and groups them. Records
// outside p are ignored, except that those in period.Previous(p) feed the
// comparison; callers should pass one snapshot covering both periods.
func Aggregate(records []core.Record, p period.Period, g Grouping) Summary {
	var (
		current []core.Record
		prior   Totals
	)
	prev := period.Previous(p)
	for _, r := range records {
		switch {
		case p.Contains(r.Date):
			current = append(current, r)
		case prev.Contains(r.Date):
			prior.add(r)
		}
	}

	s := Summary{
		Period:  p,
		Totals:  Sum(current),
		Buckets: group(current, p, g),
	}
	s.Comparison = Compare(s.Totals.Balance, prior.finish().Balance)
	return s
}

// Sum totals records regardless of date.
func Sum(records []core.Record) Totals {
	var t Totals
	for _, r := range records {
		t.add(r)
	}
	return t.finish()
}

// Compare reports the change from prior to current.
func Compare(current, prior core.Money) Comparison {
	if prior.IsZero() {
		if current.Sign() > 0 {
			pct := decimal.NewFromInt(100)
			return Comparison{Percent: &pct, Direction: Increase, Text: "+100%"}
		}
		return Comparison{Direction: Same}
	}

	diff := current.Sub(prior)
	pct := diff.Decimal().
		Mul(decimal.NewFromInt(100)).
		Div(prior.Decimal().Abs()).
		Round(1)

	c := Comparison{Percent: &pct, Direction: Same, Text: pct.String() + "%"}
	switch diff.Sign() {
	case 1:
		c.Direction = Increase
		c.Text = "+" + c.Text
	case -1:
		c.Direction = Decrease
	}
	return c
}

func (t *Totals) add(r core.Record) {
	switch r.Kind {
	case core.Income:
		t.Income = t.Income.Add(r.Amount)
	case core.Expense:
		t.Expense = t.Expense.Add(r.Amount)
	}
}

func (t Totals) finish() Totals {
	t.Balance = t.Income.Sub(t.Expense)
	t.IncomeText = t.Income.Formatted()
	t.ExpenseText = t.Expense.Formatted()
	t.BalanceText = t.Balance.Formatted()
	return t
}

func group(records []core.Record, p period.Period, g Grouping) []Bucket {
	switch g {
	case ByDay:
		return byDay(records)
	case ByMonth:
		return byMonth(records, p)
	case ByYear:
		return byYear(records)
	}
	return []Bucket{}
}

func byDay(records []core.Record) []Bucket {
	days := make(map[string][]core.Record)
	for _, r := range records {
		key := r.Date.String()
		days[key] = append(days[key], r)
	}

	out := make([]Bucket, 0, len(days))
	for key, rs := range days {
		d := rs[0].Date
		b := bucket(key, fmt.Sprintf("%d月%d日", d.Month(), d.Day()), sortRecords(rs))
		b.Weekday = weekdays[d.ISOWeekday()-1]
		b.Net = b.Totals.Balance.Signed()
		out = append(out, b)
	}
	sortDescending(out)
	return out
}

// byMonth emits every month overlapping p, including empty ones.
func byMonth(records []core.Record, p period.Period) []Bucket {
	months := make(map[string][]core.Record)
	for _, r := range records {
		key := monthKey(r.Date.Year(), r.Date.Month())
		months[key] = append(months[key], r)
	}

	var out []Bucket
	for m := period.ForMonth(p.Start.Year(), p.Start.Month()); m.Start.Before(p.End); m = period.ForMonth(m.Year, m.Month+1) {
		key := monthKey(m.Year, m.Month)
		out = append(out, bucket(key, m.Label, sortRecords(months[key])))
	}
	sortDescending(out)
	return out
}

// byYear emits only years holding at least one record.
func byYear(records []core.Record) []Bucket {
	years := make(map[int][]core.Record)
	for _, r := range records {
		years[r.Date.Year()] = append(years[r.Date.Year()], r)
	}

	out := make([]Bucket, 0, len(years))
	for y, rs := range years {
		out = append(out, bucket(fmt.Sprintf("%04d", y), fmt.Sprintf("%d年", y), sortRecords(rs)))
	}
	sortDescending(out)
	return out
}

func bucket(key, label string, records []core.Record) Bucket {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return Bucket{Key: key, Label: label, Totals: Sum(records), RecordIDs: ids}
}

func sortRecords(rs []core.Record) []core.Record {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Less(rs[j]) })
	return rs
}

// Keys are zero-padded, so lexical order is chronological.
func sortDescending(bs []Bucket) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].Key > bs[j].Key })
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
