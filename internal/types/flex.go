package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// FlexFloat is a number decoded leniently from JSON. A JSON number or a numeric
// string yields a valid value; anything else (missing, null, text, objects)
// decodes without error into an invalid value.
type FlexFloat struct {
	Value float64
	Valid bool
}

// Float wraps a valid value.
func Float(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Try unmarshaling as a number first
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat{Value: n, Valid: true}
		return nil
	}

	// Then as a numeric string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			// An empty string coerces to zero in loosely typed clients.
			*f = FlexFloat{Value: 0, Valid: true}
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) {
			*f = FlexFloat{Value: v, Valid: true}
		}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface. Invalid values encode as null.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid || math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// OrNegInf returns the value, or negative infinity when the value is invalid.
func (f FlexFloat) OrNegInf() float64 {
	if !f.Valid || math.IsNaN(f.Value) {
		return math.Inf(-1)
	}
	return f.Value
}

// FlexTime is a timestamp decoded leniently from JSON. It accepts RFC 3339
// strings, plain dates, epoch milliseconds and the extended JSON form
// {"$date": ...}. Anything else decodes into an invalid value.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

// Time wraps a valid timestamp.
func Time(t time.Time) FlexTime {
	return FlexTime{Time: t, Valid: true}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	*f = FlexTime{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*f = parseTime(s)
		}
	case '{':
		var ext struct {
			Date json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(data, &ext); err == nil && len(ext.Date) > 0 && ext.Date[0] != '{' {
			return f.UnmarshalJSON(ext.Date)
		}
	default:
		var ms float64
		if err := json.Unmarshal(data, &ms); err == nil && !math.IsNaN(ms) && !math.IsInf(ms, 0) {
			*f = FlexTime{Time: time.UnixMilli(int64(ms)).UTC(), Valid: true}
		}
	}
	return nil
}

func parseTime(s string) FlexTime {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FlexTime{Time: t, Valid: true}
		}
	}
	return FlexTime{}
}

// MarshalJSON implements the json.Marshaler interface. Invalid values encode as null.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time.UTC().Format(time.RFC3339Nano))
}

// UnixOrNegInf returns the timestamp in fractional unix seconds, or negative
// infinity when the value is invalid.
func (f FlexTime) UnixOrNegInf() float64 {
	if !f.Valid {
		return math.Inf(-1)
	}
	return float64(f.Time.UnixNano()) / float64(time.Second)
}
