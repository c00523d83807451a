// Package period resolves calendar periods (ISO weeks, months, years) and
// the labels shown on the period selector.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"jizhang/internal/core"
)

const (
	Week  Kind = "week"
	Month Kind = "month"
	Year  Kind = "year"
)

// Count is the number of periods offered by Resolve.
const Count = 5

// ErrUnknownKind is returned for kinds other than week, month and year.
var ErrUnknownKind = errors.New("unknown period kind")

type (
	Kind string

	// Period is the half-open interval [Start, End).
	Period struct {
		Kind   Kind      `json:"kind"`
		Start  core.Date `json:"start"`
		End    core.Date `json:"end"`
		Label  string    `json:"label"`
		Active bool      `json:"active"`

		// Year is the calendar year, or the ISO week-numbering year for weeks.
		Year  int `json:"year"`
		Month int `json:"month,omitempty"`
		Week  int `json:"week,omitempty"`
	}
)

// ParseKind parses "week", "month" or "year".
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case Week, Month, Year:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Resolve returns the period containing today and the four before it,
// oldest first. The last element is the current period and is Active.
func Resolve(kind Kind, today core.Date) ([]Period, error) {
	current, err := Containing(kind, today)
	if err != nil {
		return nil, err
	}

	out := make([]Period, Count)
	for i := 0; i < Count; i++ {
		back := Count - 1 - i
		p, err := shift(current, -back)
		if err != nil {
			return nil, err
		}
		p.Label = label(p, back)
		p.Active = back == 0
		out[i] = p
	}
	return out, nil
}

// Containing returns the period of the given kind that contains d.
func Containing(kind Kind, d core.Date) (Period, error) {
	switch kind {
	case Week:
		y, w := ISOWeek(d)
		return ForISOWeek(y, w), nil
	case Month:
		return ForMonth(d.Year(), d.Month()), nil
	case Year:
		return ForYear(d.Year()), nil
	}
	return Period{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Previous returns the period of the same kind immediately before p.
func Previous(p Period) Period {
	prev, err := shift(p, -1)
	if err != nil {
		// shift only fails for unknown kinds; fall back to an equal-length span.
		days := p.Days()
		return Period{Kind: p.Kind, Start: p.Start.AddDays(-days), End: p.Start}
	}
	return prev
}

// ForMonth returns [y-m-01, first day of the next month). Months outside
// 1-12 roll over into neighbouring years.
func ForMonth(year, month int) Period {
	start := core.NewDate(year, month, 1)
	return Period{
		Kind:  Month,
		Start: start,
		End:   core.NewDate(start.Year(), start.Month()+1, 1),
		Label: fmt.Sprintf("%d月", start.Month()),
		Year:  start.Year(),
		Month: start.Month(),
	}
}

// ForYear returns [y-01-01, y+1-01-01).
func ForYear(year int) Period {
	return Period{
		Kind:  Year,
		Start: core.NewDate(year, 1, 1),
		End:   core.NewDate(year+1, 1, 1),
		Label: fmt.Sprintf("%d年", year),
		Year:  year,
	}
}

// ForISOWeek returns Monday..Sunday of ISO week w in ISO year y. Weeks
// outside the year roll over into neighbouring ISO years.
func ForISOWeek(year, week int) Period {
	year, week = normalizeWeek(year, week)
	monday := ISOWeekMonday(year, week)
	return Period{
		Kind:  Week,
		Start: monday,
		End:   monday.AddDays(7),
		Label: fmt.Sprintf("第%d周", week),
		Year:  year,
		Week:  week,
	}
}

// Contains reports whether d falls in [Start, End).
func (p Period) Contains(d core.Date) bool {
	return !d.Before(p.Start) && d.Before(p.End)
}

// Days returns the number of calendar days in the period.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start.Time) / (24 * time.Hour))
}

// Dates lists every day of the period in order.
func (p Period) Dates() []core.Date {
	out := make([]core.Date, 0, p.Days())
	for d := p.Start; d.Before(p.End); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

func (p Period) String() string {
	return fmt.Sprintf("%s[%s,%s)", p.Kind, p.Start, p.End)
}

func shift(p Period, n int) (Period, error) {
	switch p.Kind {
	case Week:
		return ForISOWeek(p.Year, p.Week+n), nil
	case Month:
		return ForMonth(p.Year, p.Month+n), nil
	case Year:
		return ForYear(p.Year + n), nil
	}
	return Period{}, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
}

func label(p Period, back int) string {
	names := map[Kind][2]string{
		Week:  {"本周", "上周"},
		Month: {"本月", "上月"},
		Year:  {"今年", "去年"},
	}
	if back < 2 {
		return names[p.Kind][back]
	}
	return p.Label
}
