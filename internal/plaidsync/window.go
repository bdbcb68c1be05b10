package plaidsync

import (
	"time"

	"cloud.google.com/go/civil"
)

// HistoryWindow returns the inclusive range [today - months, today]. When the
// day does not exist in the earlier month it is clamped to that month's last
// day, so 2024-03-31 minus one month is 2024-02-29.
func HistoryWindow(today civil.Date, months int) (start, end civil.Date) {
	total := today.Year*12 + int(today.Month) - 1 - months
	year, month := total/12, time.Month(total%12+1)

	day := today.Day
	if last := daysIn(year, month); day > last {
		day = last
	}

	return civil.Date{Year: year, Month: month, Day: day}, today
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
