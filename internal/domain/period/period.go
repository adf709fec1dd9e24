package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"companygrow/internal/domain"
)

var ErrInvalidLabel = domain.NewError(domain.ErrValidation, "invalid period label")

var shortMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Of returns the bi-monthly label for t, e.g. "Mar-Apr 2024". Windows are
// calendar aligned and evaluated in UTC.
func Of(t time.Time) string {
	t = t.UTC()
	m := int(t.Month()) - 1
	start := m
	if m%2 != 0 {
		start = m - 1
	}
	return fmt.Sprintf("%s-%s %d", shortMonths[start], shortMonths[start+1], t.Year())
}

// Window parses a label produced by Of and returns its half-open [start, end) range.
func Window(label string) (time.Time, time.Time, error) {
	parts := strings.Fields(strings.TrimSpace(label))
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, ErrInvalidLabel
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil || year <= 0 {
		return time.Time{}, time.Time{}, ErrInvalidLabel
	}

	months := strings.Split(parts[0], "-")
	if len(months) != 2 {
		return time.Time{}, time.Time{}, ErrInvalidLabel
	}

	first := monthIndex(months[0])
	if first < 0 || first%2 != 0 || monthIndex(months[1]) != first+1 {
		return time.Time{}, time.Time{}, ErrInvalidLabel
	}

	start := time.Date(year, time.Month(first+1), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 2, 0), nil
}

// Valid reports whether label is a canonical period label.
func Valid(label string) bool {
	_, _, err := Window(label)
	return err == nil
}

func monthIndex(name string) int {
	for i, m := range shortMonths {
		if m == name {
			return i
		}
	}
	return -1
}
