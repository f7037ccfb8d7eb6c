// Package util holds small parsing helpers shared by the HTTP handlers.
package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var ErrInvalidTime = errors.New("invalid time format")

// ParseTimeFlexible accepts RFC 3339 timestamps, epoch milliseconds and the
// common layouts dateparse understands (2020-03-19, 2020/03/19 10:00, ...).
// Values without a zone are read as UTC. The result is always UTC.
func ParseTimeFlexible(timeStr string) (time.Time, error) {
	s := strings.TrimSpace(timeStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTime)
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	// Bare integers are epoch milliseconds, never yyyymmdd.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidTime, timeStr)
	}
	return t.UTC(), nil
}
