package ranking

import (
	"fmt"
	"reflect"
	"testing"

	"jizhang/internal/core"
)

func expense(name, icon string, cents int64) core.Record {
	return core.Record{
		Kind:         core.Expense,
		CategoryName: name,
		CategoryIcon: icon,
		Amount:       core.Money{Cents: cents},
	}
}

func TestRank(t *testing.T) {
	records := []core.Record{
		expense("餐饮", "🍚", 1000),
		expense("交通", "🚗", 7000),
		expense("餐饮", "🍚", 2000),
	}
	got := Rank(records, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].CategoryName != "交通" || got[0].Percentage != 70 || got[0].Count != 1 || got[0].AmountText != "70.00" {
		t.Errorf("unexpected first entry %+v", got[0])
	}
	if got[1].CategoryName != "餐饮" || got[1].Percentage != 30 || got[1].Count != 2 || got[1].Amount.Cents != 3000 {
		t.Errorf("unexpected second entry %+v", got[1])
	}
}

func TestRankZeroTotal(t *testing.T) {
	got := Rank([]core.Record{expense("餐饮", "", 0), expense("交通", "", 0)}, 10)
	for _, e := range got {
		if e.Percentage != 0 {
			t.Errorf("%s percentage = %d, want 0", e.CategoryName, e.Percentage)
		}
	}
	if len(got) != 2 || got[0].CategoryName != "交通" {
		t.Errorf("ties should be ordered by name, got %+v", got)
	}
}

func TestRankEmpty(t *testing.T) {
	got := Rank(nil, 5)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected an empty, non-nil list, got %#v", got)
	}
}

func TestRankTruncates(t *testing.T) {
	var records []core.Record
	for i := 1; i <= 15; i++ {
		records = append(records, expense(fmt.Sprintf("c%02d", i), "", int64(i*100)))
	}

	tests := []struct {
		topN int
		want int
	}{
		{topN: 3, want: 3},
		{topN: 0, want: DefaultTopN},
		{topN: -1, want: DefaultTopN},
		{topN: 50, want: 15},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("top%d", tt.topN), func(t *testing.T) {
			got := Rank(records, tt.topN)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if got[0].CategoryName != "c15" {
				t.Errorf("largest category first, got %s", got[0].CategoryName)
			}
		})
	}
}

func TestRankIcon(t *testing.T) {
	got := Rank([]core.Record{
		expense("餐饮", "🍚", 100),
		expense("餐饮", "🍜", 100),
		expense("餐饮", "", 100),
		expense("其他", "", 100),
	}, 10)
	icons := map[string]string{}
	for _, e := range got {
		icons[e.CategoryName] = e.CategoryIcon
	}
	if icons["餐饮"] != "🍜" {
		t.Errorf("expected last non-empty icon, got %q", icons["餐饮"])
	}
	if icons["其他"] != core.DefaultIcon {
		t.Errorf("expected default icon, got %q", icons["其他"])
	}
}

func TestRankPercentageRoundsHalfUp(t *testing.T) {
	// 1/8 = 12.5% -> 13, 7/8 = 87.5% -> 88
	got := Rank([]core.Record{expense("a", "", 100), expense("b", "", 700)}, 10)
	if got[0].Percentage != 88 || got[1].Percentage != 13 {
		t.Fatalf("percentages = %d, %d", got[0].Percentage, got[1].Percentage)
	}
}

func TestRankGroupsByNameNotID(t *testing.T) {
	a := expense("礼金", "🧧", 500)
	a.CategoryID = "gift"
	b := expense("礼金", "🧧", 500)
	b.CategoryID = "gift_in"
	got := Rank([]core.Record{a, b}, 10)
	if len(got) != 1 || got[0].Count != 2 || got[0].Percentage != 100 {
		t.Fatalf("expected one merged entry, got %+v", got)
	}
}

func TestRankKind(t *testing.T) {
	records := []core.Record{
		expense("餐饮", "", 300),
		{Kind: core.Income, CategoryName: "工资", Amount: core.Money{Cents: 100000}},
	}
	got := RankKind(records, core.Expense, 10)
	if len(got) != 1 || got[0].CategoryName != "餐饮" || got[0].Percentage != 100 {
		t.Fatalf("unexpected ranking %+v", got)
	}
}

func TestRankIsIdempotent(t *testing.T) {
	records := []core.Record{
		expense("餐饮", "🍚", 500),
		expense("交通", "🚗", 500),
		expense("购物", "🛒", 500),
		expense("娱乐", "🎮", 200),
		expense("餐饮", "🍜", 300),
		expense("医疗", "", 800),
	}
	snapshot := append([]core.Record(nil), records...)

	first := Rank(records, 10)
	second := Rank(records, 10)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Rank is not idempotent:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(records, snapshot) {
		t.Fatalf("Rank modified its input")
	}
	var names []string
	for _, e := range first {
		names = append(names, e.CategoryName)
	}
	if want := []string{"医疗", "餐饮", "交通", "购物", "娱乐"}; !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}
