package service

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/1131tariq/Courts/internal/domain"
)

// Wire format for slot boundaries, millisecond precision to match what
// the mobile clients parse.
const slotTimeLayout = "2006-01-02T15:04:05.000Z07:00"

const courtTimeLayout = "15:04"

type interval struct {
	start time.Time
	end   time.Time
}

// operatingWindow resolves a court's open/close times of day onto a
// calendar date. A close time numerically earlier than the open time
// means the court closes on the following day.
func operatingWindow(court domain.Court, date time.Time) (interval, error) {
	open, err := time.Parse(courtTimeLayout, court.OpenTime)
	if err != nil {
		return interval{}, fmt.Errorf("time.Parse(%q) -> %w", court.OpenTime, err)
	}

	closeT, err := time.Parse(courtTimeLayout, court.CloseTime)
	if err != nil {
		return interval{}, fmt.Errorf("time.Parse(%q) -> %w", court.CloseTime, err)
	}

	year, month, day := date.Date()
	start := time.Date(year, month, day, open.Hour(), open.Minute(), 0, 0, time.UTC)
	end := time.Date(year, month, day, closeT.Hour(), closeT.Minute(), 0, 0, time.UTC)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return interval{start: start, end: end}, nil
}

// freeIntervals sweeps the booked intervals across the operating window
// and returns the maximal gaps. Bookings are sorted by start time
// first (stably, so insertion order breaks ties); rows with an
// inverted or empty interval are skipped rather than failing the whole
// computation.
func freeIntervals(window interval, booked []domain.Booking) []interval {
	sorted := make([]domain.Booking, len(booked))
	copy(sorted, booked)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var free []interval
	cursor := window.start

	for _, b := range sorted {
		if !b.EndTime.After(b.StartTime) {
			zap.L().Warn("skipping malformed booking interval",
				zap.Uint("booking_id", b.ID),
				zap.Time("start", b.StartTime),
				zap.Time("end", b.EndTime))
			continue
		}

		if !cursor.Before(window.end) {
			break
		}

		gapEnd := b.StartTime
		if gapEnd.After(window.end) {
			gapEnd = window.end
		}
		if cursor.Before(gapEnd) {
			free = append(free, interval{start: cursor, end: gapEnd})
		}

		if b.EndTime.After(cursor) {
			cursor = b.EndTime
		}
	}

	if cursor.Before(window.end) {
		free = append(free, interval{start: cursor, end: window.end})
	}

	return free
}

// splitIntervals carves each free interval into fixed-size bookable
// units. A remainder shorter than one unit is discarded, never emitted
// as a short slot. Slot ids count up from 1 and are scoped to this
// response only.
func splitIntervals(free []interval, unit time.Duration) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)
	id := 1

	for _, f := range free {
		cursor := f.start
		for !cursor.Add(unit).After(f.end) {
			next := cursor.Add(unit)
			slots = append(slots, domain.AvailableSlot{
				ID:        id,
				StartTime: cursor.Format(slotTimeLayout),
				EndTime:   next.Format(slotTimeLayout),
			})
			id++
			cursor = next
		}
	}

	return slots
}
