package crystal

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/cifmeta/pdb/cmmn"
)

var (
	// ErrMissingCoords means one of the fractional coordinate columns
	// was empty or not there.
	ErrMissingCoords = errors.New("Missing atomic coordinates")
	// ErrRagged means a column is shorter than the label column.
	ErrRagged = errors.New("site loop columns differ in length")
)

// Positions of the columns in the site loop.
const (
	ColLabel = iota
	ColTypeSymbol
	ColSymMult
	ColWyckoff
	ColFractX
	ColFractY
	ColFractZ
	ColOccupancy
	NLoopCol
)

var loopTags = [NLoopCol]string{
	"_atom_site_label",
	"_atom_site_type_symbol",
	"_atom_site_symmetry_multiplicity",
	"_atom_site_Wyckoff_symbol",
	"_atom_site_fract_x",
	"_atom_site_fract_y",
	"_atom_site_fract_z",
	"_atom_site_occupancy",
}

// GetLoopTags returns the data names of the site loop, in column order.
func GetLoopTags() [NLoopCol]string { return loopTags }

// LoopValues holds the raw columns of the site loop.
type LoopValues struct {
	Label      []string
	TypeSymbol []string
	SymMult    []string
	Wyckoff    []string
	FractX     []string
	FractY     []string
	FractZ     []string
	Occupancy  []string
}

// Site is one row of the site loop with the numbers converted.
// Occupancy is left as it was written.
type Site struct {
	Label      string
	TypeSymbol string
	SymMult    int
	Wyckoff    string
	Frac       cmmn.Xyz
	Occupancy  string
}

// GetLoopValues fetches the eight columns named by tags. If any of the
// three coordinate columns is empty, the result is ErrMissingCoords and
// nothing else. Other columns may be empty.
func GetLoopValues(b Block, tags [NLoopCol]string) (*LoopValues, error) {
	var cols [NLoopCol][]string
	for i, tag := range tags {
		cols[i] = b.FindLoop(tag)
	}
	if len(cols[ColFractX]) == 0 || len(cols[ColFractY]) == 0 || len(cols[ColFractZ]) == 0 {
		return nil, ErrMissingCoords
	}
	return &LoopValues{
		Label:      cols[ColLabel],
		TypeSymbol: cols[ColTypeSymbol],
		SymMult:    cols[ColSymMult],
		Wyckoff:    cols[ColWyckoff],
		FractX:     cols[ColFractX],
		FractY:     cols[ColFractY],
		FractZ:     cols[ColFractZ],
		Occupancy:  cols[ColOccupancy],
	}, nil
}

// Columns gives the columns by position, in the order of GetLoopTags.
func (lv *LoopValues) Columns() [NLoopCol][]string {
	return [NLoopCol][]string{
		lv.Label, lv.TypeSymbol, lv.SymMult, lv.Wyckoff,
		lv.FractX, lv.FractY, lv.FractZ, lv.Occupancy,
	}
}

// NRow is the number of sites, taken from the label column.
func (lv *LoopValues) NRow() int { return len(lv.Label) }

// cell gets row i of a column. An absent column gives "", a column that
// is there but too short is ErrRagged.
func cell(col []string, name string, i int) (string, error) {
	if len(col) == 0 {
		return "", nil
	}
	if i >= len(col) {
		return "", fmt.Errorf("%w: %s has %d rows, wanted row %d", ErrRagged, name, len(col), i)
	}
	return col[i], nil
}

// parseCoord reads a coordinate after taking off any uncertainty.
func parseCoord(s string) (float64, error) {
	return strconv.ParseFloat(cmmn.RemoveBracket(s), 64)
}

// Row converts row i of the table. If a coordinate cannot be read,
// Frac is cmmn.BrokenXyz as well as the error being set.
func (lv *LoopValues) Row(i int) (Site, error) {
	var site Site
	if i < 0 || i >= lv.NRow() {
		return site, fmt.Errorf("row %d out of range, %d sites", i, lv.NRow())
	}
	site.Label = lv.Label[i]
	var err error
	if site.TypeSymbol, err = cell(lv.TypeSymbol, loopTags[ColTypeSymbol], i); err != nil {
		return site, err
	}
	if site.Wyckoff, err = cell(lv.Wyckoff, loopTags[ColWyckoff], i); err != nil {
		return site, err
	}
	if site.Occupancy, err = cell(lv.Occupancy, loopTags[ColOccupancy], i); err != nil {
		return site, err
	}
	mult, err := cell(lv.SymMult, loopTags[ColSymMult], i)
	if err != nil {
		return site, err
	}
	if mult != "" {
		if site.SymMult, err = strconv.Atoi(mult); err != nil {
			return site, fmt.Errorf("site %s multiplicity: %w", site.Label, err)
		}
	}
	xyz := [3]*float64{&site.Frac.X, &site.Frac.Y, &site.Frac.Z}
	for k, col := range [3][]string{lv.FractX, lv.FractY, lv.FractZ} {
		s, err := cell(col, loopTags[ColFractX+k], i)
		if err != nil {
			return site, err
		}
		if *xyz[k], err = parseCoord(s); err != nil {
			site.Frac = cmmn.BrokenXyz
			return site, fmt.Errorf("site %s coordinate: %w", site.Label, err)
		}
	}
	return site, nil
}

// Sites converts every row.
func (lv *LoopValues) Sites() ([]Site, error) {
	ret := make([]Site, 0, lv.NRow())
	for i := 0; i < lv.NRow(); i++ {
		s, err := lv.Row(i)
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// Coords puts the fractional coordinates in an n x 3 matrix. A row
// that cannot be read is an error. The number of rows comes from the
// coordinate columns, not the labels.
func (lv *LoopValues) Coords() (*matrix.FMatrix2d, error) {
	n := len(lv.FractX)
	if len(lv.FractY) != n || len(lv.FractZ) != n {
		return nil, fmt.Errorf("%w: coordinate columns have %d, %d and %d rows",
			ErrRagged, len(lv.FractX), len(lv.FractY), len(lv.FractZ))
	}
	mat := matrix.NewFMatrix2d(n, 3)
	for i := 0; i < n; i++ {
		for k, col := range [3][]string{lv.FractX, lv.FractY, lv.FractZ} {
			x, err := parseCoord(col[i])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			mat.Mat[i][k] = float32(x)
		}
	}
	return mat, nil
}

// TypeSymbols gives the element of each site. The type symbol column
// is used when there is one; otherwise the element is guessed from the
// label. Unknown ones are "".
func (lv *LoopValues) TypeSymbols() []string {
	ret := make([]string, lv.NRow())
	for i, lbl := range lv.Label {
		src := lbl
		if i < len(lv.TypeSymbol) && lv.TypeSymbol[i] != "?" && lv.TypeSymbol[i] != "." {
			src = lv.TypeSymbol[i]
		}
		ret[i], _ = GetAtomType(src)
	}
	return ret
}
