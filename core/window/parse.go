package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"example.com/ecwindow/base/floats"
)

var ErrParse = errors.New("failed to parse inputs")

type ParseError struct {
	Input  string
	Field  int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("%v %q: %s", ErrParse, e.Input, e.Reason)
	}
	return fmt.Sprintf("%v %q: field %d: %s", ErrParse, e.Input, e.Field+1, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// ParseInputs parses "userInteraction,outdoorTemp,indoorTemp,Lux", optionally
// enclosed in parentheses. Every field must be a finite number.
func ParseInputs(s string) (Inputs, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "(") != strings.HasSuffix(t, ")") {
		return Inputs{}, &ParseError{Input: s, Field: -1, Reason: "unbalanced parentheses"}
	}
	t = strings.TrimSuffix(strings.TrimPrefix(t, "("), ")")
	fields := strings.Split(t, ",")
	if len(fields) != 4 {
		return Inputs{}, &ParseError{Input: s, Field: -1,
			Reason: fmt.Sprintf("got %d fields, want 4", len(fields))}
	}
	var vs [4]float64
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Inputs{}, &ParseError{Input: s, Field: i, Reason: fmt.Sprintf("invalid number %q", f)}
		}
		if !floats.Finite(v) {
			return Inputs{}, &ParseError{Input: s, Field: i, Reason: "value must be finite"}
		}
		vs[i] = v
	}
	return Inputs{
		UserInteraction: vs[0],
		OutdoorTemp:     vs[1],
		IndoorTemp:      vs[2],
		Lux:             vs[3],
	}, nil
}
