package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFlexible(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", "2020-03-19T10:00:00Z", time.Date(2020, 3, 19, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 with offset", "2020-03-19T12:00:00+02:00", time.Date(2020, 3, 19, 10, 0, 0, 0, time.UTC)},
		{"epoch millis", "1584612000000", time.Date(2020, 3, 19, 10, 0, 0, 0, time.UTC)},
		{"plain day", "2020-03-19", time.Date(2020, 3, 19, 0, 0, 0, 0, time.UTC)},
		{"day and time", "2020-03-19 10:00:00", time.Date(2020, 3, 19, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeFlexible(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimeFlexible_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not a time"} {
		_, err := ParseTimeFlexible(in)
		assert.ErrorIs(t, err, ErrInvalidTime, in)
	}
}
