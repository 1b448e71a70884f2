package settlement

import "time"

// FortnightOf returns the inclusive bounds of the half-month containing t:
// days 1 to 15, or 16 to the last day of the month. Bounds are UTC midnights.
func FortnightOf(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	year, month, day := t.Date()
	if day <= 15 {
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
	}
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return time.Date(year, month, 16, 0, 0, 0, 0, time.UTC), lastDay
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// localDay maps the calendar day of t in loc onto a UTC midnight.
func localDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
