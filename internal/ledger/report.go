package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"jizhang/internal/core"
	"jizhang/internal/period"
)

type (
	// History is the all-time view: overall totals and one bucket per year
	// that holds records.
	History struct {
		Totals  Totals   `json:"totals"`
		Years   []Bucket `json:"years"`
		Records int      `json:"records"`
	}

	// Point is one bar of a chart series.
	Point struct {
		Key        string     `json:"key"`
		Label      string     `json:"label"`
		Amount     core.Money `json:"amount"`
		AmountText string     `json:"amountText"`
		Percentage int        `json:"percentage"`
	}

	// Chart is the trend of a single kind over a period.
	Chart struct {
		Period      period.Period `json:"period"`
		Kind        core.Kind     `json:"kind"`
		Total       core.Money    `json:"total"`
		TotalText   string        `json:"totalText"`
		Average     core.Money    `json:"average"`
		AverageText string        `json:"averageText"`
		Points      []Point       `json:"points"`
	}
)

// MonthlyReport groups a calendar year by month; all twelve months are
// present, most recent first.
func MonthlyReport(records []core.Record, year int) Summary {
	return Aggregate(records, period.ForYear(year), ByMonth)
}

// YearlyReport totals the whole history.
func YearlyReport(records []core.Record) History {
	return History{
		Totals:  Sum(records),
		Years:   byYear(append([]core.Record(nil), records...)),
		Records: len(records),
	}
}

// DaysTracked counts whole days, rounded up, between the earliest record's
// date and now. The record date is read as midnight in now's location, so a
// server outside UTC counts from its own calendar day. It is 0 when there
// are no records.
func DaysTracked(earliest *core.Record, now time.Time) int {
	if earliest == nil {
		return 0
	}
	const day = 24 * time.Hour
	d := earliest.Date
	start := time.Date(d.Year(), time.Month(d.Month()), d.Day(), 0, 0, 0, 0, now.Location())
	diff := now.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

// BuildChart sums the records of one kind inside p into a series: one
// point per day for week and month periods, one per month for years.
func BuildChart(records []core.Record, p period.Period, kind core.Kind) Chart {
	var (
		total  core.Money
		byKey  = make(map[string]core.Money)
		yearly = p.Kind == period.Year
	)
	for _, r := range records {
		if r.Kind != kind || !p.Contains(r.Date) {
			continue
		}
		total = total.Add(r.Amount)
		key := r.Date.String()
		if yearly {
			key = monthKey(r.Date.Year(), r.Date.Month())
		}
		byKey[key] = byKey[key].Add(r.Amount)
	}

	c := Chart{
		Period:    p,
		Kind:      kind,
		Total:     total,
		TotalText: total.Formatted(),
		Points:    []Point{},
	}
	if days := p.Days(); days > 0 {
		c.Average = core.MoneyFromDecimal(total.Decimal().Div(decimal.NewFromInt(int64(days))))
	}
	c.AverageText = c.Average.Formatted()

	add := func(key, label string) {
		amount := byKey[key]
		c.Points = append(c.Points, Point{
			Key:        key,
			Label:      label,
			Amount:     amount,
			AmountText: amount.Formatted(),
			Percentage: amount.Share(total),
		})
	}
	if yearly {
		for m := 1; m <= 12; m++ {
			add(monthKey(p.Year, m), fmt.Sprintf("%d", m))
		}
		return c
	}
	for _, d := range p.Dates() {
		label := fmt.Sprintf("%02d", d.Day())
		if p.Kind == period.Week {
			label = fmt.Sprintf("%d-%d", d.Month(), d.Day())
		}
		add(d.String(), label)
	}
	return c
}
