package session

import (
	"testing"
	"time"

	"ExplosionRadar/internal/model"
)

func nyBars(t *testing.T, days ...string) []model.Bar {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	bars := make([]model.Bar, len(days))
	for i, d := range days {
		day, err := time.ParseInLocation("2006-01-02", d, loc)
		if err != nil {
			t.Fatal(err)
		}
		bars[i] = model.Bar{Date: day, Close: 10, Volume: 1000}
	}
	return bars
}

func nyTime(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestMostRecentClosed_MidSessionSkipsToday(t *testing.T) {
	sel := newFallbackSelector()
	// Tue 2025-03-11 and Wed 2025-03-12; now is Wednesday 11:00, market open.
	bars := nyBars(t, "2025-03-11", "2025-03-12")
	idx, ok := sel.MostRecentClosed(bars, nyTime(t, "2025-03-12 11:00"))
	if !ok {
		t.Fatal("expected a closed session")
	}
	if idx != 0 {
		t.Errorf("idx = %d, want 0 (yesterday's bar)", idx)
	}
}

func TestMostRecentClosed_EveningTakesToday(t *testing.T) {
	sel := newFallbackSelector()
	bars := nyBars(t, "2025-03-11", "2025-03-12")
	idx, ok := sel.MostRecentClosed(bars, nyTime(t, "2025-03-12 17:30"))
	if !ok {
		t.Fatal("expected a closed session")
	}
	if idx != 1 {
		t.Errorf("idx = %d, want 1 (today closed at 16:00)", idx)
	}
}

func TestMostRecentClosed_PreOpenMorning(t *testing.T) {
	sel := newFallbackSelector()
	// 08:00: market not open yet, but the session has not ended either.
	bars := nyBars(t, "2025-03-11", "2025-03-12")
	idx, ok := sel.MostRecentClosed(bars, nyTime(t, "2025-03-12 08:00"))
	if !ok {
		t.Fatal("expected a closed session")
	}
	if idx != 0 {
		t.Errorf("idx = %d, want 0 (today's session has not ended)", idx)
	}
}

func TestMostRecentClosed_WeekendTakesFriday(t *testing.T) {
	sel := newFallbackSelector()
	// Fri 2025-03-14; now is Saturday noon.
	bars := nyBars(t, "2025-03-13", "2025-03-14")
	idx, ok := sel.MostRecentClosed(bars, nyTime(t, "2025-03-15 12:00"))
	if !ok {
		t.Fatal("expected a closed session")
	}
	if idx != 1 {
		t.Errorf("idx = %d, want 1 (Friday)", idx)
	}
}

func TestMostRecentClosed_NoClosedBar(t *testing.T) {
	sel := newFallbackSelector()
	// Only today's bar exists and the market is still trading.
	bars := nyBars(t, "2025-03-12")
	if _, ok := sel.MostRecentClosed(bars, nyTime(t, "2025-03-12 11:00")); ok {
		t.Error("an in-progress session must not be selected")
	}
	if _, ok := sel.MostRecentClosed(nil, nyTime(t, "2025-03-12 11:00")); ok {
		t.Error("empty series must report no closed session")
	}
}

func TestMostRecentClosed_FutureBarIgnored(t *testing.T) {
	sel := newFallbackSelector()
	bars := nyBars(t, "2025-03-11", "2025-03-13") // provider glitch: future date
	idx, ok := sel.MostRecentClosed(bars, nyTime(t, "2025-03-12 18:00"))
	if !ok {
		t.Fatal("expected a closed session")
	}
	if idx != 0 {
		t.Errorf("idx = %d, want 0 (future bars can never be closed)", idx)
	}
}

func TestNewSelector_UsableOutOfTheBox(t *testing.T) {
	sel := NewSelector()
	bars := nyBars(t, "2025-03-10", "2025-03-11")
	// Long after both sessions ended, the latest bar wins regardless of
	// which calendar backend is active.
	idx, ok := sel.MostRecentClosed(bars, nyTime(t, "2025-03-12 09:00"))
	if !ok || idx != 1 {
		t.Errorf("idx=%d ok=%v, want 1 true", idx, ok)
	}
}
