package main

import (
	"bytes"
	"strings"
	"testing"

	"jizhang/internal/core"
	"jizhang/internal/ledger"
	"jizhang/internal/period"
	"jizhang/internal/ranking"
)

func TestRender(t *testing.T) {
	p := period.ForMonth(2024, 3)
	recs := []core.Record{
		{ID: "a", Kind: core.Expense, Amount: core.Money{Cents: 3000}, CategoryName: "餐饮", CategoryIcon: "🍱", Date: core.NewDate(2024, 3, 15)},
		{ID: "b", Kind: core.Expense, Amount: core.Money{Cents: 7000}, CategoryName: "交通", CategoryIcon: "🚇", Date: core.NewDate(2024, 3, 16)},
		{ID: "c", Kind: core.Income, Amount: core.Money{Cents: 123456}, CategoryName: "工资", Date: core.NewDate(2024, 2, 1)},
	}

	var buf bytes.Buffer
	err := render(&buf, report{
		Summary: ledger.Aggregate(recs, p, ledger.ByDay),
		Ranking: ranking.RankKind(recs, core.Expense, 10),
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"2024-03-01 ~ 2024-03-31",
		"100.00",
		"3月16日 周六",
		"1. 🚇 交通",
		"70%",
		"-108.1%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
