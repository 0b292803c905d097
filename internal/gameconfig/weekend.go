package gameconfig

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// WeekendWindow is a weekly interval expressed in a fixed UTC offset. The
// end may wrap past Saturday into the following week.
type WeekendWindow struct {
	StartWeekday   int `json:"start_weekday"`
	StartHour      int `json:"start_hour"`
	EndWeekday     int `json:"end_weekday"`
	EndHour        int `json:"end_hour"`
	UTCOffsetHours int `json:"utc_offset_hours"`
}

// Location returns the fixed zone the window is defined in.
func (w WeekendWindow) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", w.UTCOffsetHours), w.UTCOffsetHours*3600)
}

// Contains reports whether t falls inside the window.
func (w WeekendWindow) Contains(t time.Time) bool {
	local := t.In(w.Location())
	m := int(local.Weekday())*minutesPerDay + local.Hour()*60 + local.Minute()
	start := w.StartWeekday*minutesPerDay + w.StartHour*60
	end := w.EndWeekday*minutesPerDay + w.EndHour*60

	switch {
	case start == end:
		return false
	case start < end:
		return m >= start && m < end
	default:
		return m >= start || m < end
	}
}

// StartSpec is the six-field cron expression firing when the window opens.
func (w WeekendWindow) StartSpec() string {
	return fmt.Sprintf("0 0 %d * * %d", w.StartHour, w.StartWeekday)
}

// EndSpec is the six-field cron expression firing when the window closes.
func (w WeekendWindow) EndSpec() string {
	return fmt.Sprintf("0 0 %d * * %d", w.EndHour, w.EndWeekday)
}
