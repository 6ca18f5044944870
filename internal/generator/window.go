package generator

import "time"

// DefaultMonths is the length of the generated history.
const DefaultMonths = 18

// Window is an inclusive range of calendar dates aligned to whole months.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the months whole calendar months that end on the
// last day of the month before anchor.
func TrailingWindow(anchor time.Time, months int) Window {
	if months <= 0 {
		months = DefaultMonths
	}
	firstOfAnchor := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfAnchor.AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: end}
}

// Contains reports whether d falls within the window, ignoring time of day.
func (w Window) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Months returns the first day of every month in the window, in order.
func (w Window) Months() []time.Time {
	var out []time.Time
	for cur := w.Start; !cur.After(w.End); cur = cur.AddDate(0, 1, 0) {
		out = append(out, cur)
	}
	return out
}

func lastDayOfMonth(first time.Time) int {
	return first.AddDate(0, 1, -1).Day()
}
