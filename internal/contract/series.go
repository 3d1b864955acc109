package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/trendboard/trendboard/schema"
)

// SeriesFile is the on-disk JSON shape consumed by the CLI and MCP
// surfaces. Each raw point carries either a numerator/denominator pair or
// a plain value (shorthand for value/1).
type SeriesFile struct {
	Name   string     `json:"name"`
	Points []RawPoint `json:"points"`
}

// RawPoint is one unparsed observation from a series file.
type RawPoint struct {
	Date        string   `json:"date"`
	Numerator   *float64 `json:"numerator,omitempty"`
	Denominator *float64 `json:"denominator,omitempty"`
	Value       *float64 `json:"value,omitempty"`
}

// LoadSeries reads a series file and returns its name and normalized
// point sequence (sorted ascending, duplicate timestamps collapsed
// last-write-wins).
func LoadSeries(path string) (string, schema.PointSequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read series file %q: %w", path, err)
	}
	name, seq, err := ParseSeries(data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse series file %q: %w", path, err)
	}
	return name, seq, nil
}

// ParseSeries decodes series JSON into a normalized point sequence.
func ParseSeries(data []byte) (string, schema.PointSequence, error) {
	var file SeriesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", nil, err
	}
	if len(file.Points) == 0 {
		return file.Name, schema.PointSequence{}, nil
	}

	points := make([]schema.Point, 0, len(file.Points))
	for i, raw := range file.Points {
		p, err := raw.toPoint()
		if err != nil {
			return "", nil, fmt.Errorf("point %d: %w", i, err)
		}
		points = append(points, p)
	}
	return file.Name, schema.Normalize(points), nil
}

// toPoint converts a raw observation, resolving the value-vs-rate
// shorthand. A point must carry either value or numerator+denominator,
// not both.
func (r RawPoint) toPoint() (schema.Point, error) {
	ts, err := ParseDate(r.Date)
	if err != nil {
		return schema.Point{}, err
	}

	switch {
	case r.Value != nil:
		if r.Numerator != nil || r.Denominator != nil {
			return schema.Point{}, fmt.Errorf("value and numerator/denominator are mutually exclusive at %s", r.Date)
		}
		return schema.Point{Timestamp: ts, Numerator: *r.Value, Denominator: 1}, nil
	case r.Numerator != nil && r.Denominator != nil:
		return schema.Point{Timestamp: ts, Numerator: *r.Numerator, Denominator: *r.Denominator}, nil
	}
	return schema.Point{}, fmt.Errorf("point at %s needs value or numerator+denominator", r.Date)
}

// FormatDate renders a timestamp in the flag/date format used across
// outputs.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
