package timezone

import (
	"time"
	// zone data for hosts without a system tz database
	_ "time/tzdata"
)

var DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DayRange returns [start, end) of the calendar day dateStr (YYYY-MM-DD) in tz.
func DayRange(dateStr, tz string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", dateStr, Location(tz))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day, day.AddDate(0, 0, 1), nil
}
