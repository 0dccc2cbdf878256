package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat decodes a JSON number or a numeric string. Browser forms post
// number inputs as strings, so both shapes are accepted.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	value, err := parseFlexNumber(data)
	if err != nil {
		return err
	}
	parsed, err := parseFinite(value)
	if err != nil {
		return err
	}
	*f = FlexFloat(parsed)
	return nil
}

// FlexInt is the integer counterpart of FlexFloat. Integral forms such as
// 2.0 or 1e1 are accepted; fractional values are rejected rather than
// truncated.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	value, err := parseFlexNumber(data)
	if err != nil {
		return err
	}
	parsed, err := parseFinite(value)
	if err != nil {
		return err
	}
	if parsed != math.Trunc(parsed) || parsed > math.MaxInt32 || parsed < math.MinInt32 {
		return fmt.Errorf("invalid integer %q", value)
	}
	*i = FlexInt(parsed)
	return nil
}

// parseFinite rejects NaN and the infinities, which strconv accepts in
// spellings like "NaN", "Inf" and "Infinity".
func parseFinite(value string) (float64, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return parsed, nil
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseFlexNumber(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", fmt.Errorf("empty number")
		}
		return s, nil
	}
	return string(trimmed), nil
}

func isJSONNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
