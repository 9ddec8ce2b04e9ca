package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatBalance formats a token amount with thousand separators
func FormatBalance(balance int64) string {
	str := strconv.FormatInt(balance, 10)

	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if negative {
		return "-" + str
	}
	return str
}

// FormatDuration renders a cooldown remainder as d/h/m/s, dropping
// leading zero units.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	seconds := d - minutes*time.Minute

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds/time.Second))

	return strings.Join(parts, " ")
}

// parseAmount parses a positive token amount from a command argument.
func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

// parseMention extracts the user ID from a <@123> or <@!123> mention.
func parseMention(s string) (int64, bool) {
	if !strings.HasPrefix(s, "<@") || !strings.HasSuffix(s, ">") {
		return 0, false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(s, "<@"), ">")
	id = strings.TrimPrefix(id, "!")
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
