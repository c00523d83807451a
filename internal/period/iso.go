package period

import "jizhang/internal/core"

// ISOWeek returns the ISO-8601 week-numbering year and week of d.
//
// The week is identified by its Thursday: d is shifted to the Thursday of
// its Monday-based week, the week year is that Thursday's year and the week
// number is ceil(dayOfYear(thursday) / 7).
func ISOWeek(d core.Date) (year, week int) {
	thursday := d.AddDays(4 - d.ISOWeekday())
	return thursday.Year(), (thursday.YearDay() + 6) / 7
}

// ISOWeekMonday returns the Monday of ISO week w in ISO year y, anchored on
// January 4th, which always falls in week 1.
func ISOWeekMonday(year, week int) core.Date {
	jan4 := core.NewDate(year, 1, 4)
	week1Monday := jan4.AddDays(1 - jan4.ISOWeekday())
	return week1Monday.AddDays((week - 1) * 7)
}

// WeeksInYear returns 52 or 53. December 28th always falls in the last
// ISO week of its year.
func WeeksInYear(year int) int {
	_, w := ISOWeek(core.NewDate(year, 12, 28))
	return w
}

// normalizeWeek rolls weeks below 1 or past the last week of the year into
// the neighbouring ISO years.
func normalizeWeek(year, week int) (int, int) {
	for week < 1 {
		year--
		week += WeeksInYear(year)
	}
	for week > WeeksInYear(year) {
		week -= WeeksInYear(year)
		year++
	}
	return year, week
}
