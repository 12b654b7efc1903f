package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Score is an integer that remembers whether it was actually supplied.
// A Score decoded from a missing or malformed value has Valid == false and
// reads as zero, so callers that only need the number see the old behavior.
type Score struct {
	Value int
	Valid bool
}

// Int returns the value, or zero when the score was defaulted.
func (s Score) Int() int {
	if !s.Valid {
		return 0
	}
	return s.Value
}

// String renders a defaulted score as "0" like an explicit one.
func (s Score) String() string {
	return strconv.Itoa(s.Int())
}

// MarshalJSON emits null for a defaulted score.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts numbers and numeric strings; anything else yields a
// defaulted score rather than an error.
func (s *Score) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*s = Score{}
		return nil
	}
	*s = scoreOf(v)
	return nil
}

// scoreOf converts a decoded JSON value into a Score. Fractions are truncated.
func scoreOf(v any) Score {
	switch n := v.(type) {
	case float64:
		return Score{Value: int(n), Valid: true}
	case int:
		return Score{Value: n, Valid: true}
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return Score{Value: int(f), Valid: true}
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return Score{Value: int(f), Valid: true}
		}
	}
	return Score{}
}

// Bound is an optional numeric filter bound.
type Bound struct {
	Value int
	Set   bool
}

// ParseBound parses a base-10 integer bound. Empty or malformed input yields
// an unset bound, which filters nothing.
func ParseBound(s string) Bound {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Bound{}
	}
	return Bound{Value: n, Set: true}
}
