package period

import (
	"errors"
	"testing"

	"jizhang/internal/core"
)

func d(y, m, day int) core.Date { return core.NewDate(y, m, day) }

func TestResolveMonth(t *testing.T) {
	got, err := Resolve(Month, d(2024, 3, 15))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != Count {
		t.Fatalf("expected %d periods, got %d", Count, len(got))
	}

	want := []struct {
		label      string
		start, end core.Date
	}{
		{"11月", d(2023, 11, 1), d(2023, 12, 1)},
		{"12月", d(2023, 12, 1), d(2024, 1, 1)},
		{"1月", d(2024, 1, 1), d(2024, 2, 1)},
		{"上月", d(2024, 2, 1), d(2024, 3, 1)},
		{"本月", d(2024, 3, 1), d(2024, 4, 1)},
	}
	for i, w := range want {
		p := got[i]
		if p.Label != w.label || !p.Start.Equal(w.start) || !p.End.Equal(w.end) {
			t.Errorf("period %d = %s %q, want [%s,%s) %q", i, p, p.Label, w.start, w.end, w.label)
		}
		if p.Active != (i == Count-1) {
			t.Errorf("period %d active = %v", i, p.Active)
		}
	}
}

func TestResolveMonthAcrossYearEnd(t *testing.T) {
	got, err := Resolve(Month, d(2024, 12, 31))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	cur := got[Count-1]
	if !cur.Start.Equal(d(2024, 12, 1)) || !cur.End.Equal(d(2025, 1, 1)) {
		t.Errorf("December should end on next January 1st, got %s", cur)
	}
}

func TestResolveYear(t *testing.T) {
	got, err := Resolve(Year, d(2024, 6, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	labels := []string{"2020年", "2021年", "2022年", "去年", "今年"}
	for i, l := range labels {
		if got[i].Label != l {
			t.Errorf("label %d = %q, want %q", i, got[i].Label, l)
		}
	}
	cur := got[Count-1]
	if !cur.Start.Equal(d(2024, 1, 1)) || !cur.End.Equal(d(2025, 1, 1)) {
		t.Errorf("unexpected current year %s", cur)
	}
}

func TestResolveWeek(t *testing.T) {
	got, err := Resolve(Week, d(2024, 3, 15))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	cur := got[Count-1]
	if cur.Week != 11 || cur.Year != 2024 || cur.Label != "本周" {
		t.Fatalf("unexpected current week %+v", cur)
	}
	if !cur.Start.Equal(d(2024, 3, 11)) || !cur.End.Equal(d(2024, 3, 18)) {
		t.Fatalf("unexpected current week bounds %s", cur)
	}
	if got[Count-2].Label != "上周" || got[0].Label != "第7周" {
		t.Fatalf("unexpected labels %q %q", got[Count-2].Label, got[0].Label)
	}
}

func TestResolveWeekYearBoundary(t *testing.T) {
	got, err := Resolve(Week, d(2023, 1, 1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	cur := got[Count-1]
	if cur.Year != 2022 || cur.Week != 52 {
		t.Fatalf("2023-01-01 should be ISO week 52 of 2022, got %d-W%d", cur.Year, cur.Week)
	}
	if !cur.Start.Equal(d(2022, 12, 26)) || !cur.End.Equal(d(2023, 1, 2)) {
		t.Fatalf("unexpected bounds %s", cur)
	}
}

func TestResolveWeekRollsIntoPriorISOYear(t *testing.T) {
	got, err := Resolve(Week, d(2024, 1, 10))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []struct {
		year, week int
		label      string
		start      core.Date
	}{
		{2023, 50, "第50周", d(2023, 12, 11)},
		{2023, 51, "第51周", d(2023, 12, 18)},
		{2023, 52, "第52周", d(2023, 12, 25)},
		{2024, 1, "上周", d(2024, 1, 1)},
		{2024, 2, "本周", d(2024, 1, 8)},
	}
	for i, w := range want {
		p := got[i]
		if p.Year != w.year || p.Week != w.week || p.Label != w.label || !p.Start.Equal(w.start) {
			t.Errorf("period %d = %d-W%d %q %s, want %d-W%d %q %s",
				i, p.Year, p.Week, p.Label, p.Start, w.year, w.week, w.label, w.start)
		}
	}
	// consecutive weeks must tile without gaps
	for i := 1; i < len(got); i++ {
		if !got[i].Start.Equal(got[i-1].End) {
			t.Errorf("gap between %s and %s", got[i-1], got[i])
		}
	}
}

func TestISOWeekMatchesStandardLibrary(t *testing.T) {
	for day := d(2015, 12, 20); day.Before(d(2027, 1, 15)); day = day.AddDays(1) {
		y, w := ISOWeek(day)
		sy, sw := day.Time.ISOWeek()
		if y != sy || w != sw {
			t.Fatalf("ISOWeek(%s) = %d-W%d, want %d-W%d", day, y, w, sy, sw)
		}
		monday := ISOWeekMonday(y, w)
		if monday.ISOWeekday() != 1 || day.Before(monday) || !day.Before(monday.AddDays(7)) {
			t.Fatalf("ISOWeekMonday(%d, %d) = %s does not contain %s", y, w, monday, day)
		}
	}
}

func TestWeeksInYear(t *testing.T) {
	tests := map[int]int{2015: 53, 2020: 53, 2022: 52, 2023: 52, 2026: 53}
	for y, want := range tests {
		if got := WeeksInYear(y); got != want {
			t.Errorf("WeeksInYear(%d) = %d, want %d", y, got, want)
		}
	}
}

func TestForISOWeekNormalizes(t *testing.T) {
	p := ForISOWeek(2021, 0)
	if p.Year != 2020 || p.Week != 53 {
		t.Errorf("week 0 of 2021 = %d-W%d, want 2020-W53", p.Year, p.Week)
	}
	p = ForISOWeek(2022, 53)
	if p.Year != 2023 || p.Week != 1 {
		t.Errorf("week 53 of 2022 = %d-W%d, want 2023-W1", p.Year, p.Week)
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name  string
		p     Period
		start core.Date
		end   core.Date
	}{
		{"january to december", ForMonth(2024, 1), d(2023, 12, 1), d(2024, 1, 1)},
		{"march to february", ForMonth(2024, 3), d(2024, 2, 1), d(2024, 3, 1)},
		{"year", ForYear(2024), d(2023, 1, 1), d(2024, 1, 1)},
		{"first week", ForISOWeek(2024, 1), d(2023, 12, 25), d(2024, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Previous(tt.p)
			if !got.Start.Equal(tt.start) || !got.End.Equal(tt.end) || got.Kind != tt.p.Kind {
				t.Errorf("Previous(%s) = %s, want [%s,%s)", tt.p, got, tt.start, tt.end)
			}
		})
	}
}

func TestPeriodDays(t *testing.T) {
	if got := ForMonth(2024, 2).Days(); got != 29 {
		t.Errorf("February 2024 days = %d", got)
	}
	if got := ForYear(2023).Days(); got != 365 {
		t.Errorf("2023 days = %d", got)
	}
	dates := ForISOWeek(2024, 11).Dates()
	if len(dates) != 7 || !dates[0].Equal(d(2024, 3, 11)) || !dates[6].Equal(d(2024, 3, 17)) {
		t.Errorf("unexpected week dates %v", dates)
	}
	p := ForMonth(2024, 3)
	if !p.Contains(d(2024, 3, 1)) || !p.Contains(d(2024, 3, 31)) || p.Contains(d(2024, 4, 1)) {
		t.Errorf("Contains must be half-open")
	}
}

func TestUnknownKind(t *testing.T) {
	if _, err := Resolve("decade", d(2024, 1, 1)); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := ParseKind("Quarter"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if k, err := ParseKind(" Month "); err != nil || k != Month {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
}
