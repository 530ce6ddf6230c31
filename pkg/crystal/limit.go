package crystal

import (
	"math"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/cifmeta/pdb/cmmn"
)

// ExceedsAtomCountLimit is true if there are more points than maxAtomsCount.
// Having exactly maxAtomsCount is fine.
func ExceedsAtomCountLimit[T any](allPoints []T, maxAtomsCount int) bool {
	return len(allPoints) > maxAtomsCount
}

// posTol is the rounding used to decide that two positions are the same.
const posTol = 1e-4

// wrap brings a fractional coordinate into [0, 1).
func wrap(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1-posTol/2 {
		x = 0
	}
	return x
}

func round(x float64) float64 { return math.Round(x/posTol) * posTol }

// UniquePositions wraps each row of coords into the unit cell and drops
// repeats, keeping the first. Positions within about 1e-4 are the same.
func UniquePositions(coords *matrix.FMatrix2d) []cmmn.Xyz {
	if coords == nil {
		return nil
	}
	seen := make(map[cmmn.Xyz]bool, len(coords.Mat))
	var ret []cmmn.Xyz
	for _, row := range coords.Mat {
		p := cmmn.Xyz{X: wrap(float64(row[0])), Y: wrap(float64(row[1])), Z: wrap(float64(row[2]))}
		key := cmmn.Xyz{X: round(p.X), Y: round(p.Y), Z: round(p.Z)}
		if seen[key] {
			continue
		}
		seen[key] = true
		ret = append(ret, p)
	}
	return ret
}
