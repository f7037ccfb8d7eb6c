package transform

import (
	"fmt"
	"regexp"
	"time"

	"analytics-report-backend/internal/model"
)

type datetimeFormat struct {
	layout  string
	pattern *regexp.Regexp
}

// datetimeFormats is checked in order; the first match wins.
var datetimeFormats = []datetimeFormat{
	{"200601", regexp.MustCompile(`^[0-9]{4}(1[0-2]|0[1-9])$`)},
	{"20060102", regexp.MustCompile(`^[0-9]{4}(1[0-2]|0[1-9])(3[01]|0[1-9]|[12][0-9])$`)},
	{"2006010215", regexp.MustCompile(`^[0-9]{4}(1[0-2]|0[1-9])(3[01]|0[1-9]|[12][0-9])(2[0-3]|[01][0-9])$`)},
	{"200601021504", regexp.MustCompile(`^[0-9]{4}(1[0-2]|0[1-9])(3[01]|0[1-9]|[12][0-9])(2[0-3]|[01][0-9])[0-5][0-9]$`)},
}

// detectLayout returns the layout whose pattern fully matches value.
func detectLayout(value string) (string, bool) {
	for _, f := range datetimeFormats {
		if f.pattern.MatchString(value) {
			return f.layout, true
		}
	}
	return "", false
}

// parseDateColumn promotes a text column to datetime when its first value
// matches a known layout. Only row zero is inspected; the rest of the column
// must then parse under the same layout.
func parseDateColumn(c *model.Column) (*model.Column, error) {
	if c.Type != model.ColumnString || len(c.Strings) == 0 {
		return c, nil
	}
	layout, ok := detectLayout(c.Strings[0])
	if !ok {
		return c, nil
	}

	parsed := model.NewColumn(c.Name, c.Kind, model.ColumnDateTime, len(c.Strings))
	for i, s := range c.Strings {
		ts, err := time.Parse(layout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q does not match layout %s: %v", ErrCoercion, c.Name, i, s, layout, err)
		}
		parsed.Times = append(parsed.Times, ts)
	}
	return parsed, nil
}
