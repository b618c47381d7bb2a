package domain

import "time"

// Court is immutable reference data; rows are created and edited by
// administration tooling, the API only reads them.
type Court struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	OpenTime  string  `json:"open_time"`  // "HH:MM" time of day
	CloseTime string  `json:"close_time"` // "HH:MM"; earlier than OpenTime means next-day close
}

type Booking struct {
	ID        uint      `json:"id"`
	CourtID   uint      `json:"court_id"`
	UserID    uint      `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// AvailableSlot is derived per request and never persisted. IDs are
// sequential from 1 and only meaningful within a single response.
type AvailableSlot struct {
	ID        int    `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
