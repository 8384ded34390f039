// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatCompact formats an amount with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatCompact(v float64) string {
	abs := math.Abs(v)

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
}

// FormatAmount formats a whole amount with comma separators.
func FormatAmount(v float64) string {
	return FormatNumber(int64(math.Round(v)))
}

// FormatK formats a thousands value, dropping a trailing ".0".
// e.g., 16.7 -> "16.7K", 12 -> "12K"
func FormatK(k float64) string {
	s := strconv.FormatFloat(k, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + "K"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the difference between two amounts with a sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatAmount(delta)
	}
	return "-" + FormatAmount(-delta)
}

// FormatDays formats a day count, e.g. 1 -> "1 day", 3 -> "3 days".
func FormatDays(n int) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d day", n)
	}
	return fmt.Sprintf("%d days", n)
}

// FormatDate formats a calendar date, or "never" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return fmt.Sprintf("%s %s", FormatDayOfWeek(int(t.Weekday())), t.Format("2006-01-02"))
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}
