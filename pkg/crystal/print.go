package crystal

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var descriptions = [NLoopCol]string{
	"Atom Site Label:",
	"Atom Site Type Symbol:",
	"Atom Site Symmetry Multiplicity:",
	"Atom Site Wyckoff Symbol:",
	"Atom Site Fract X:",
	"Atom Site Fract Y:",
	"Atom Site Fract Z:",
	"Atom Site Occupancy:",
}

// fmtFloat writes the shortest form of x that reads back the same,
// always with a decimal point, switching to exponent form (1e-05, 1e+16) when the decimal exponent is below -4
// or at least 16. NaN and infinities are nan, inf and -inf.
func fmtFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(x, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// PrintLoopValues writes row i of the site loop to standard output.
func PrintLoopValues(lv *LoopValues, i int) error {
	return FprintLoopValues(os.Stdout, lv, i)
}

// FprintLoopValues writes row i of the site loop, one labelled line per
// column and then a blank line. Coordinates must be plain numbers and
// the multiplicity an integer, otherwise it is an error and nothing is
// written. This is for looking at files, not for checking them.
func FprintLoopValues(w io.Writer, lv *LoopValues, i int) error {
	var b strings.Builder
	for idx, col := range lv.Columns() {
		if i < 0 || i >= len(col) {
			return fmt.Errorf("%s row %d out of range, column has %d", loopTags[idx], i, len(col))
		}
		value := col[i]
		switch idx {
		case ColFractX, ColFractY, ColFractZ:
			x, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", loopTags[idx], err)
			}
			value = fmtFloat(x)
		case ColSymMult:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s: %w", loopTags[idx], err)
			}
			value = strconv.Itoa(n)
		}
		fmt.Fprintf(&b, "%s %s\n", descriptions[idx], value)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
