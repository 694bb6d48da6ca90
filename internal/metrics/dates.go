package metrics

import "time"

const isoDate = "2006-01-02"

// DaysDiff returns the whole days between two ISO dates. A nil/empty end
// means "until now". Malformed input yields nil, never an error: the
// engine always degrades to "unknown" instead of failing a request.
func DaysDiff(start string, end *string, now time.Time) *int {
	s, err := time.Parse(isoDate, start)
	if err != nil {
		return nil
	}
	e := now
	if end != nil && *end != "" {
		e, err = time.Parse(isoDate, *end)
		if err != nil {
			return nil
		}
	}
	d := int(e.Sub(s).Hours() / 24)
	return &d
}

// FormatDisplayDate converts an ISO date to DD/MM/YYYY for display.
// Nil or empty input yields nil; an unparseable string is passed through
// unchanged so bad data still renders.
func FormatDisplayDate(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(isoDate, *s)
	if err != nil {
		return s
	}
	out := t.Format("02/01/2006")
	return &out
}
