package crystal

import (
	"fmt"
	"strconv"

	"github.com/andrew-torda/cifmeta/pdb/cmmn"
)

// Unit cell data names, lengths then angles.
var (
	CellLengthTags = [3]string{"_cell_length_a", "_cell_length_b", "_cell_length_c"}
	CellAngleTags  = [3]string{"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma"}
)

// CellParam is one cell length or angle as written, with the uncertainty
// removed. Ok is false if the block did not have it.
type CellParam struct {
	Raw string
	Ok  bool
}

// Float converts the parameter. A missing parameter or one that is not
// a number, like "?", is an error.
func (p CellParam) Float() (float64, error) {
	if !p.Ok {
		return 0, fmt.Errorf("cell parameter missing")
	}
	x, err := strconv.ParseFloat(p.Raw, 64)
	if err != nil {
		return 0, fmt.Errorf("cell parameter: %w", err)
	}
	return x, nil
}

// UnitCell has lengths a, b, c in the units of the file and the angles
// in degrees. Nothing is checked.
type UnitCell struct {
	A, B, C            CellParam
	Alpha, Beta, Gamma CellParam
}

// Params gives the six parameters in the order a, b, c, alpha, beta, gamma.
func (u UnitCell) Params() [6]CellParam {
	return [6]CellParam{u.A, u.B, u.C, u.Alpha, u.Beta, u.Gamma}
}

// Floats converts all six parameters. This is where a caller finds out
// that something was missing.
func (u UnitCell) Floats() ([6]float64, error) {
	var ret [6]float64
	names := append(CellLengthTags[:], CellAngleTags[:]...)
	for i, p := range u.Params() {
		x, err := p.Float()
		if err != nil {
			return ret, fmt.Errorf("%s: %w", names[i], err)
		}
		ret[i] = x
	}
	return ret, nil
}

func cellParam(b Block, tag string) CellParam {
	v, ok := b.FindValue(tag)
	if !ok {
		return CellParam{}
	}
	return CellParam{Raw: cmmn.RemoveBracket(v), Ok: true}
}

// GetUnitCellLengthsAngles reads the six cell parameters. A missing one
// is left with Ok false. It is up to the caller to check.
func GetUnitCellLengthsAngles(b Block) UnitCell {
	return UnitCell{
		A:     cellParam(b, CellLengthTags[0]),
		B:     cellParam(b, CellLengthTags[1]),
		C:     cellParam(b, CellLengthTags[2]),
		Alpha: cellParam(b, CellAngleTags[0]),
		Beta:  cellParam(b, CellAngleTags[1]),
		Gamma: cellParam(b, CellAngleTags[2]),
	}
}
