package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseCount parses a count cell. Empty, non-numeric and non-finite values
// yield (0, false). Negative values are returned as parsed.
func ParseCount(valStr string) (float64, bool) {
	valStr = strings.TrimSpace(valStr)
	if valStr == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// ParseCode parses a categorical code cell. "1" and "1.0" are both code 1;
// fractional, empty or non-numeric values are rejected.
func ParseCode(valStr string) (int, bool) {
	valStr = strings.TrimSpace(valStr)
	if valStr == "" {
		return 0, false
	}
	if code, err := strconv.Atoi(valStr); err == nil {
		return code, true
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
		return 0, false
	}
	if val > math.MaxInt32 || val < math.MinInt32 {
		return 0, false
	}
	return int(val), true
}

// ParseInt64 parses an integer cell, returning 0 when it is not one.
func ParseInt64(valStr string) int64 {
	val, err := strconv.ParseInt(strings.TrimSpace(valStr), 10, 64)
	if err != nil {
		return 0
	}
	return val
}

// IsBlank reports whether a cell carries no value.
func IsBlank(valStr string) bool {
	v := strings.TrimSpace(valStr)
	return v == "" || v == "NaN"
}
