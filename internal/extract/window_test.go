package extract

import (
	"testing"
	"time"
)

func TestNewWindow_SpansExactlyNDays(t *testing.T) {
	now := time.Date(2026, 3, 5, 13, 45, 12, 0, time.UTC)

	for _, days := range []int{1, 2, 7, 30} {
		w := NewWindow(now, days)
		if got := w.End.Sub(w.Start); got != time.Duration(days)*24*time.Hour {
			t.Errorf("days=%d: span = %v", days, got)
		}
		if want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC); !w.End.Equal(want) {
			t.Errorf("days=%d: end = %v, want most recent UTC midnight %v", days, w.End, want)
		}
	}
}

func TestNewWindow_AnchorsToUTCMidnight(t *testing.T) {
	// 01:00 in UTC+2 is 23:00 the previous day in UTC; the window must
	// anchor to the UTC calendar, not the local one.
	loc := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2026, 3, 5, 1, 0, 0, 0, loc)

	w := NewWindow(now, 1)
	if want := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC); !w.End.Equal(want) {
		t.Errorf("end = %v, want %v", w.End, want)
	}
	if want := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC); !w.Start.Equal(want) {
		t.Errorf("start = %v, want %v", w.Start, want)
	}
}

func TestWindow_Interval(t *testing.T) {
	now := time.Date(2026, 3, 5, 13, 45, 12, 0, time.UTC)

	got := NewWindow(now, 1).Interval()
	want := "2026-03-04T00:00:00/2026-03-05T00:00:00"
	if got != want {
		t.Errorf("interval = %q, want %q", got, want)
	}
}
