// Package ranking orders categories by the amount spent or earned in them.
package ranking

import (
	"sort"

	"jizhang/internal/core"
)

// DefaultTopN is used when a non-positive limit is requested.
const DefaultTopN = 10

// Entry is one ranked category. Records are grouped by display name, so
// two category ids sharing a name collapse into one entry.
type Entry struct {
	CategoryName string     `json:"categoryName"`
	CategoryIcon string     `json:"categoryIcon"`
	Amount       core.Money `json:"amount"`
	AmountText   string     `json:"amountText"`
	Count        int        `json:"count"`
	Percentage   int        `json:"percentage"`
}

// Rank groups records by category name and returns at most topN entries,
// largest amount first. Ties are broken by category name. Percentages are
// whole numbers of the grand total, and 0 when the total is 0.
func Rank(records []core.Record, topN int) []Entry {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var (
		total  core.Money
		byName = make(map[string]*Entry)
	)
	for _, r := range records {
		e, ok := byName[r.CategoryName]
		if !ok {
			e = &Entry{CategoryName: r.CategoryName, CategoryIcon: core.DefaultIcon}
			byName[r.CategoryName] = e
		}
		if r.CategoryIcon != "" {
			e.CategoryIcon = r.CategoryIcon
		}
		e.Amount = e.Amount.Add(r.Amount)
		e.Count++
		total = total.Add(r.Amount)
	}

	out := make([]Entry, 0, len(byName))
	for _, e := range byName {
		e.AmountText = e.Amount.Formatted()
		e.Percentage = e.Amount.Share(total)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// RankKind ranks only the records of the given kind.
func RankKind(records []core.Record, kind core.Kind, topN int) []Entry {
	filtered := make([]core.Record, 0, len(records))
	for _, r := range records {
		if r.Kind == kind {
			filtered = append(filtered, r)
		}
	}
	return Rank(filtered, topN)
}
