package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// Date is a calendar day with no time zone attached. Comparable with ==.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value, err)
	}

	*d = DateOf(parsed)
	return nil
}

// TimeSlot is a single candidate or chosen start instant - a calendar day
// plus a minute of that day. Two slots are equal iff both fields match.
type TimeSlot struct {
	Date   Date `json:"date"`
	Minute int  `json:"minute"`
}

// StartTime pins the slot to an instant in UTC.
func (s TimeSlot) StartTime() time.Time {
	return time.Date(s.Date.Year, s.Date.Month, s.Date.Day, 0, s.Minute, 0, 0, time.UTC)
}

func (s TimeSlot) EndTime(durationMinutes int) time.Time {
	return s.StartTime().Add(time.Duration(durationMinutes) * time.Minute)
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %02d:%02d", s.Date, s.Minute/60, s.Minute%60)
}

func (s TimeSlot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *TimeSlot) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// DateWindow is an organizer-supplied availability window on a single day,
// bounded by minutes of that day.
type DateWindow struct {
	Date Date `json:"date"`
	From int  `json:"from"`
	To   int  `json:"to"`
}

func (w DateWindow) Validate() error {
	if w.From < 0 || w.To >= minutesPerDay || w.From >= w.To {
		return fmt.Errorf("%w: %s from %d to %d", ErrInvalidWindow, w.Date, w.From, w.To)
	}

	return nil
}

// Locations is the set of opaque location references an event or a join
// request carries. Stored as a jsonb column.
type Locations []string

func (l Locations) Contains(location string) bool {
	for _, candidate := range l {
		if candidate == location {
			return true
		}
	}
	return false
}

func (l Locations) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *Locations) Scan(src interface{}) error {
	return scanJSON(src, l)
}

type DateWindows []DateWindow

func (w DateWindows) Value() (driver.Value, error) {
	return json.Marshal(w)
}

func (w *DateWindows) Scan(src interface{}) error {
	return scanJSON(src, w)
}

type TimeSlots []TimeSlot

func (s TimeSlots) Contains(slot TimeSlot) bool {
	for _, candidate := range s {
		if candidate == slot {
			return true
		}
	}
	return false
}

func (s TimeSlots) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *TimeSlots) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch value := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(value, dst)
	case string:
		return json.Unmarshal([]byte(value), dst)
	default:
		return fmt.Errorf("unsupported scan source %T", src)
	}
}
