package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// ErrUnsupported is returned for any phrasing the converter does not
// guarantee. Unsupported input is rejected, never guessed.
var ErrUnsupported = errors.New("unsupported schedule phrasing")

// Converter turns a natural language schedule into a 5-field cron
// expression. Pluggable so richer parsers can replace the default.
type Converter func(text string) (string, error)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var dailyPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}) tous les jours$`)

// ToCron is the default Converter. The only guaranteed phrasing is
// "HH:MM tous les jours" (daily at the given time).
func ToCron(text string) (string, error) {
	text = strings.ToLower(strings.TrimSpace(text))

	m := dailyPattern.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, text)
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, text)
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, text)
	}

	expr := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := parser.Parse(expr); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, text)
	}
	return expr, nil
}
