package sdd

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects how Split converts tokens.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var converters = map[Kind]func(string) (float64, error){
	KindInt: func(s string) (float64, error) {
		n, err := strconv.Atoi(s)
		return float64(n), err
	},
	KindFloat: func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	},
}

// Tokens splits a composite field into groups of raw tokens.
//
// A "/" anywhere in the value selects the two-level form: groups are split on
// "/" (with or without surrounding spaces), then each group is split like a
// flat value. Without "/" the whole value is one group. A group is split on
// "," when it contains one (", " included), otherwise on runs of whitespace.
// Empty tokens and empty groups are dropped.
func Tokens(value string) [][]string {
	parts := []string{value}
	if strings.Contains(value, "/") {
		parts = strings.Split(value, "/")
	}
	out := make([][]string, 0, len(parts))
	for _, p := range parts {
		if g := splitGroup(p); len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func splitGroup(s string) []string {
	var raw []string
	if strings.Contains(s, ",") {
		raw = strings.Split(s, ",")
	} else {
		raw = strings.Fields(s)
	}
	out := raw[:0]
	for _, tok := range raw {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// SplitStrings is the KindString form of Split: tokens are returned as-is.
func SplitStrings(value string) [][]string {
	return Tokens(value)
}

// Split tokenizes value and converts every token with the converter for kind.
// The first token that fails to convert aborts with a *DecodeError.
// KindString has no numeric form; use SplitStrings.
func Split(value string, kind Kind) ([][]float64, error) {
	conv, ok := converters[kind]
	if !ok {
		return nil, &DecodeError{Value: value, Err: fmt.Errorf("unsupported kind %s", kind)}
	}
	groups := Tokens(value)
	out := make([][]float64, len(groups))
	for i, g := range groups {
		vals := make([]float64, len(g))
		for j, tok := range g {
			v, err := conv(tok)
			if err != nil {
				return nil, &DecodeError{Value: value, Err: fmt.Errorf("token %q as %s: %w", tok, kind, err)}
			}
			vals[j] = v
		}
		out[i] = vals
	}
	return out, nil
}

// Flatten concatenates groups in order.
func Flatten(groups [][]float64) []float64 {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]float64, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
