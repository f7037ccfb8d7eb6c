package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var (
	ErrInvalidDate         = errors.New("not a supported date")
	ErrUnsupportedDateType = errors.New("unsupported date type")

	daysAgoPattern = regexp.MustCompile(`^[0-9]+DaysAgo$`)
	isoDayPattern  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

const acceptedForms = "use a date/time value, 'today', 'yesterday', 'NDaysAgo' or 'YYYY-MM-DD'"

// DateRange is the normalized form of a reporting date range.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Normalize converts a date specification into the string form accepted by
// the reporting API. Time values keep only their calendar day.
func Normalize(value interface{}) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(dayLayout), nil
	case *time.Time:
		if v == nil {
			return "", fmt.Errorf("%w: nil *time.Time; %s", ErrUnsupportedDateType, acceptedForms)
		}
		return v.Format(dayLayout), nil
	case string:
		return normalizeString(v)
	default:
		return "", fmt.Errorf("%w: %v (%T); %s", ErrUnsupportedDateType, value, value, acceptedForms)
	}
}

func normalizeString(s string) (string, error) {
	lower := strings.ToLower(s)
	if lower == "today" || lower == "yesterday" {
		return lower, nil
	}
	if daysAgoPattern.MatchString(s) || isoDayPattern.MatchString(s) {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q; %s", ErrInvalidDate, s, acceptedForms)
}

// NormalizeRange normalizes both ends of a range; the error names the failing end.
func NormalizeRange(start, end interface{}) (DateRange, error) {
	startDate, err := Normalize(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("startDate=%v: %w", start, err)
	}
	endDate, err := Normalize(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("endDate=%v: %w", end, err)
	}
	return DateRange{StartDate: startDate, EndDate: endDate}, nil
}
