package extract

import "time"

// isoSeconds matches the analytics API's interval filter format:
// second-precision ISO-8601 without a zone designator (the window is
// computed in UTC).
const isoSeconds = "2006-01-02T15:04:05"

// Window is a half-open [Start, End) extraction interval anchored to the
// most recent UTC midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow computes the trailing window of the given number of whole days
// ending at the most recent UTC midnight before now. days must be >= 1;
// config validation enforces that before a window is ever built.
func NewWindow(now time.Time, days int) Window {
	midnight := now.UTC().Truncate(24 * time.Hour)
	start := midnight.AddDate(0, 0, -days)
	return Window{Start: start, End: start.AddDate(0, 0, days)}
}

// Interval renders the window as the "{start}/{end}" filter string the
// conversation-details query expects.
func (w Window) Interval() string {
	return w.Start.Format(isoSeconds) + "/" + w.End.Format(isoSeconds)
}
