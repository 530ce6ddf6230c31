// Package cmmn has common definitions for fractional coordinates and
// the small string helpers shared by the cif packages.
package cmmn

import (
	"math"
	"strings"
)

// Exit codes used by the command line programs.
const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// Xyz is a position in fractional coordinates.
type Xyz struct{ X, Y, Z float64 }

// BrokenXyz marks a position that could not be read.
var BrokenXyz = Xyz{math.MaxFloat64, 0, -math.MaxFloat64}

// Ok is false for the broken sentinel.
func (xyz Xyz) Ok() bool {
	return xyz != BrokenXyz
}

// RemoveBracket strips standard uncertainty groups from a number, so
// "1.234(5)" becomes "1.234". Every (...) group goes, along with any
// white space around the result. An unclosed "(" cuts the string there.
func RemoveBracket(s string) string {
	if !strings.ContainsRune(s, '(') {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	depth := 0
	for _, c := range s {
		switch {
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}
