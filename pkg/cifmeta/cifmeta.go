// Package cifmeta has the work behind each cifmeta sub-command. The
// functions write plain text to a writer and return errors; the command
// line layer decides on exit codes.
package cifmeta

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/andrew-torda/cifmeta/pdb/cifio"
	"github.com/andrew-torda/cifmeta/pkg/config"
	"github.com/andrew-torda/cifmeta/pkg/crystal"
)

// Options are shared by all the operations. Nil fields get defaults.
type Options struct {
	Cfg *config.Config
	Log *slog.Logger
}

func (o *Options) cfg() *config.Config {
	if o == nil || o.Cfg == nil {
		return config.Default()
	}
	return o.Cfg
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

func (o *Options) readOpts() *cifio.Options {
	return &cifio.Options{Log: o.log()}
}

// formula is ExtractFormulaAndAtoms or the strict version, as set in
// the config.
func formula(b crystal.Block, strict bool) (crystal.Formula, int, string, error) {
	if strict {
		return crystal.ParseFormulaStrict(b)
	}
	f, n, clean := crystal.ExtractFormulaAndAtoms(b)
	return f, n, clean, nil
}

// Formula prints, for each file, the cleaned formula, the element
// counts and the number of different elements. A file without a
// formula gets "?". All files are tried; the errors are joined.
func Formula(w io.Writer, fnames []string, opts *Options) error {
	var errs []error
	for _, fname := range fnames {
		b, err := cifio.GetCIFBlock(fname, opts.readOpts())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f, n, clean, err := formula(b, opts.cfg().StrictFormula)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", fname, err))
			continue
		}
		if clean == "" {
			fmt.Fprintf(w, "%s\t?\n", fname)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", fname, clean, f, n)
	}
	return errors.Join(errs...)
}

// Cell prints the six cell parameters, "?" for the ones that are not
// there.
func Cell(w io.Writer, fname string, opts *Options) error {
	b, err := cifio.GetCIFBlock(fname, opts.readOpts())
	if err != nil {
		return err
	}
	writeCell(w, crystal.GetUnitCellLengthsAngles(b))
	return nil
}

func writeCell(w io.Writer, u crystal.UnitCell) {
	names := append(crystal.CellLengthTags[:], crystal.CellAngleTags[:]...)
	for i, p := range u.Params() {
		v := p.Raw
		if !p.Ok {
			v = "?"
		}
		fmt.Fprintf(w, "%-18s %s\n", names[i], v)
	}
}

// AllRows asks Sites for every row.
const AllRows = -1

// Sites prints row of the site loop, or all of them for AllRows. If
// there are more distinct positions than max_atoms, it says so in the
// log, but it is not an error.
func Sites(w io.Writer, fname string, row int, opts *Options) error {
	b, err := cifio.GetCIFBlock(fname, opts.readOpts())
	if err != nil {
		return err
	}
	lv, err := crystal.GetLoopValues(b, opts.cfg().SiteTags())
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	checkLimit(lv, fname, opts)
	if row != AllRows {
		if err := crystal.FprintLoopValues(w, lv, row); err != nil {
			return fmt.Errorf("%s: %w", fname, err)
		}
		return nil
	}
	for i := 0; i < lv.NRow(); i++ {
		if err := crystal.FprintLoopValues(w, lv, i); err != nil {
			return fmt.Errorf("%s: %w", fname, err)
		}
	}
	return nil
}

// overLimit says if the distinct positions in lv are more than the
// config allows. It also gives back the number of positions.
func overLimit(lv *crystal.LoopValues, maxAtoms int) (bool, int, error) {
	coords, err := lv.Coords()
	if err != nil {
		return false, 0, err
	}
	pos := crystal.UniquePositions(coords)
	return crystal.ExceedsAtomCountLimit(pos, maxAtoms), len(pos), nil
}

func checkLimit(lv *crystal.LoopValues, fname string, opts *Options) {
	maxAtoms := opts.cfg().MaxAtoms
	over, n, err := overLimit(lv, maxAtoms)
	switch {
	case err != nil:
		opts.log().Warn("could not read coordinates", "file", fname, "err", err)
	case over:
		opts.log().Warn("too many atoms", "file", fname, "positions", n, "max_atoms", maxAtoms)
	}
}
