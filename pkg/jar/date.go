package jar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseCookieDate parses an HTTP-date of the form
// "[weekday,] <day> <month> <year> <HH:MM:SS> [zone]". Day, month and year may
// also be joined by '-' as in "21-Oct-2015". The result is in UTC.
func parseCookieDate(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) > 0 && isWeekday(fields[0]) {
		fields = fields[1:]
	}
	if len(fields) > 0 && strings.Count(fields[0], "-") == 2 {
		fields = append(strings.Split(fields[0], "-"), fields[1:]...)
	}
	if len(fields) < 4 {
		return time.Time{}, fmt.Errorf("%w: %q has too few fields", ErrInvalidDate, s)
	}

	day, err := atoiDigits(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: bad day %q", ErrInvalidDate, fields[0])
	}

	name := strings.ToLower(fields[1])
	if len(name) > 3 {
		name = name[:3]
	}
	month, ok := months[name]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: bad month %q", ErrInvalidDate, fields[1])
	}

	year, err := atoiDigits(fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad year %q", ErrInvalidDate, fields[2])
	}
	switch {
	case year >= 70 && year <= 99:
		year += 1900
	case year >= 0 && year <= 69:
		year += 2000
	}
	if year < 1601 {
		return time.Time{}, fmt.Errorf("%w: year %d before 1601", ErrInvalidDate, year)
	}

	hms := strings.Split(fields[3], ":")
	if len(hms) != 3 {
		return time.Time{}, fmt.Errorf("%w: bad time %q", ErrInvalidDate, fields[3])
	}
	var clock [3]int
	limits := [3]int{23, 59, 59}
	for i, part := range hms {
		n, err := atoiDigits(part)
		if err != nil || n < 0 || n > limits[i] {
			return time.Time{}, fmt.Errorf("%w: bad time %q", ErrInvalidDate, fields[3])
		}
		clock[i] = n
	}

	t := time.Date(year, month, day, clock[0], clock[1], clock[2], 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: day %d out of range for %s", ErrInvalidDate, day, month)
	}
	return t, nil
}

// atoiDigits is strconv.Atoi restricted to plain digits: no sign, no spaces.
func atoiDigits(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

func isWeekday(tok string) bool {
	tok = strings.ToLower(strings.TrimSuffix(tok, ","))
	if len(tok) < 3 {
		return false
	}
	switch tok[:3] {
	case "mon", "tue", "wed", "thu", "fri", "sat", "sun":
		return true
	}
	return false
}
