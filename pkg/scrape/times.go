package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

var meetingR = regexp.MustCompile(`^(?P<days>[A-Z]+):(?P<startHour>\d{2})(?P<startMinute>\d{2})-(?P<endHour>\d{2})(?P<endMinute>\d{2})`)

// ParseTimes converts a schedule string like "MWF:0900-0950 T:1400-1520"
// into a map from day letter to meeting span. Tokens that don't look like
// a meeting block ("TBA", "ARR", room notes) are skipped, not errors. If
// a day letter appears in more than one token the last token wins.
//
// The hour and minute fields are taken verbatim from the page; no range
// check is applied here.
func ParseTimes(courseTimes string) map[string]TimeSpan {
	times := make(map[string]TimeSpan)

	for _, token := range strings.Split(courseTimes, " ") {
		if token == "" {
			continue
		}

		m := meetingR.FindStringSubmatch(token)
		if m == nil {
			continue
		}

		span := TimeSpan{
			Start: Time{atoi(m[2]), atoi(m[3])},
			End:   Time{atoi(m[4]), atoi(m[5])},
		}
		for _, day := range m[1] {
			times[string(day)] = span
		}
	}

	return times
}

// atoi converts a string of digits already vetted by a regexp.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
