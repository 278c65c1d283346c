// Package session decides which bar of a daily series represents the most
// recent fully closed trading session. The provider's last row may be an
// in-progress session, so the choice is an explicit rule against the
// exchange calendar, not a fixed offset from the end of the series.
package session

import (
	"log"
	"time"

	"github.com/scmhub/calendar"

	"ExplosionRadar/internal/model"
)

// Selector resolves session state against the XNYS calendar, with a plain
// Mon-Fri 09:30-16:00 New York fallback when the calendar is unavailable.
type Selector struct {
	cal      *calendar.Calendar
	loc      *time.Location
	fallback bool
}

// NewSelector returns a selector for the NYSE session schedule.
func NewSelector() *Selector {
	cal := calendar.GetCalendar("xnys")
	if cal == nil {
		log.Println("[WARN] XNYS calendar unavailable, using Mon-Fri 09:30-16:00 fallback")
		return newFallbackSelector()
	}
	return &Selector{cal: cal, loc: cal.Loc}
}

func newFallbackSelector() *Selector {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &Selector{fallback: true, loc: loc}
}

// MostRecentClosed returns the index of the latest bar whose session has
// fully closed as of now. ok is false when no bar qualifies.
func (s *Selector) MostRecentClosed(bars []model.Bar, now time.Time) (int, bool) {
	for i := len(bars) - 1; i >= 0; i-- {
		if s.sessionClosed(bars[i].Date, now) {
			return i, true
		}
	}
	return 0, false
}

// sessionClosed reports whether the trading session containing barDate has
// already ended at `now`.
func (s *Selector) sessionClosed(barDate, now time.Time) bool {
	barDay := dateOnly(barDate.In(s.loc))
	nowDay := dateOnly(now.In(s.loc))
	switch {
	case barDay.Before(nowDay):
		return true
	case barDay.After(nowDay):
		return false
	}
	// Same calendar day: closed only once the session has ended. Sessions
	// end no earlier than 13:00 local (early-close days), so a closed
	// market in the afternoon means the day is done.
	local := now.In(s.loc)
	if s.marketOpen(local) {
		return false
	}
	return local.Hour() >= 13
}

func (s *Selector) marketOpen(t time.Time) bool {
	if s.fallback {
		wd := t.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
		hour, min := t.Hour(), t.Minute()
		afterOpen := hour > 9 || (hour == 9 && min >= 30)
		return afterOpen && hour < 16
	}
	return s.cal.IsOpen(t)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
