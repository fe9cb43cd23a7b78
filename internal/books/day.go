package books

import "time"

// StartOfDay truncates t to the start of its calendar day in loc. All expense
// dates are stored in this form, so day sheets are addressable by exact date.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
    if loc == nil {
        loc = time.UTC
    }
    local := t.In(loc)
    return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns the half-open interval [start, end) covering t's calendar
// day in loc. The exclusive end is the start of the next day, which matches
// an inclusive end-of-day bound for any stored timestamp.
func DayBounds(t time.Time, loc *time.Location) (start, end time.Time) {
    start = StartOfDay(t, loc)
    return start, start.AddDate(0, 0, 1)
}
