package model

import (
	"math"
	"strconv"
	"strings"
)

// SubjectEntry is one subject line in a collaborator record, as extracted.
// Mark fields are `any` because the extraction output is noisy: numbers,
// numeric strings and nulls all occur.
type SubjectEntry struct {
	Code     string `json:"Code"`
	Internal any    `json:"Internal"`
	External any    `json:"External"`
	Total    any    `json:"Total"`
	Result   string `json:"Result"`
}

// StudentRecord is one extraction attempt for a single identifier.
type StudentRecord struct {
	USN      string         `json:"USN"`
	Subjects []SubjectEntry `json:"Subjects"`
}

// SubjectMarks is one subject's reconciled contribution for an identifier
// in the current run.
type SubjectMarks struct {
	Internal any
	External any
	Total    any
	Result   string
}

// IntValue reports v as an int when it is an integral number. JSON decoding
// yields float64 for every number, so integral floats count.
func IntValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	}
	return 0, false
}

// CoerceInt additionally accepts numeric strings. This is the coercion used
// when writing mark cells: ints when possible, raw value otherwise.
func CoerceInt(v any) (int, bool) {
	if n, ok := IntValue(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Blank reports whether a mark value is absent (nil or empty string).
func Blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
