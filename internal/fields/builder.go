// Package fields turns user supplied metric, dimension and filter
// specifications into the request fragments the reporting API expects.
//
// A specification is either a bare name or a mapping that carries the
// style's required key plus any extra attributes (alias, operator, ...).
package fields

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

type Style string

const (
	StyleMetrics    Style = "metrics"
	StyleDimensions Style = "dimensions"
	StyleFilters    Style = "filters"
)

var (
	ErrUnsupportedStyle = errors.New("unsupported field style")
	ErrInvalidField     = errors.New("invalid field specification")
)

// RequiredKey returns the key every structured specification of the style must carry.
func (s Style) RequiredKey() (string, error) {
	switch s {
	case StyleMetrics:
		return "expression", nil
	case StyleDimensions:
		return "name", nil
	case StyleFilters:
		return "dimensionName", nil
	default:
		return "", fmt.Errorf("%w: %q (expected metrics, dimensions or filters)", ErrUnsupportedStyle, string(s))
	}
}

// Parse converts items into request fragments. Every invalid item is
// reported in the returned error, not only the first one.
func Parse(items []interface{}, style Style) ([]map[string]interface{}, error) {
	key, err := style.RequiredKey()
	if err != nil {
		return nil, err
	}

	parsed := make([]map[string]interface{}, 0, len(items))
	var errs error
	for i, item := range items {
		switch v := item.(type) {
		case string:
			parsed = append(parsed, map[string]interface{}{key: v})
		case map[string]interface{}:
			if _, ok := v[key]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %v is missing required key %q", style, i, v, key))
				continue
			}
			fragment := make(map[string]interface{}, len(v))
			for k, val := range v {
				fragment[k] = val
			}
			parsed = append(parsed, fragment)
		case map[string]string:
			if _, ok := v[key]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %v is missing required key %q", style, i, v, key))
				continue
			}
			fragment := make(map[string]interface{}, len(v))
			for k, val := range v {
				fragment[k] = val
			}
			parsed = append(parsed, fragment)
		default:
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %v (%T) must be a string or a mapping with key %q", style, i, item, item, key))
		}
	}

	if errs != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidField, errs)
	}
	return parsed, nil
}

// Strings wraps plain names so they can be passed to Parse.
func Strings(names ...string) []interface{} {
	items := make([]interface{}, len(names))
	for i, n := range names {
		items[i] = n
	}
	return items
}
