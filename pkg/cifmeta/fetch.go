package cifmeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andrew-torda/cifmeta/pdb/cifio"
	"github.com/andrew-torda/cifmeta/pkg/crystal"
)

// fetcher is set up from the config.
func (o *Options) fetcher() *cifio.Fetcher {
	cfg := o.cfg()
	return &cifio.Fetcher{BaseURL: cfg.CODBaseURL, Gzip: cfg.CODGzip, Opts: o.readOpts()}
}

// Fetch downloads a COD entry. With outFname set, the text is saved
// there unchanged. Otherwise we print the formula, the cell and the
// number of sites.
func Fetch(ctx context.Context, w io.Writer, codID, outFname string, opts *Options) error {
	f := opts.fetcher()
	if outFname != "" {
		b, err := f.FetchRaw(ctx, codID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outFname, b, 0o644); err != nil {
			return err
		}
		opts.log().Info("saved", "cod_id", codID, "file", outFname, "bytes", len(b))
		return nil
	}
	doc, err := f.Fetch(ctx, codID)
	if err != nil {
		return err
	}
	b, err := doc.SoleBlock()
	if err != nil {
		return fmt.Errorf("%s: %w", codID, err)
	}
	fm, n, clean, err := formula(b, opts.cfg().StrictFormula)
	if err != nil {
		return fmt.Errorf("%s: %w", codID, err)
	}
	if clean == "" {
		clean = "?"
	}
	fmt.Fprintf(w, "data_%s\nformula %s %s %d\n", b.Name, clean, fm, n)
	writeCell(w, crystal.GetUnitCellLengthsAngles(b))
	lv, err := crystal.GetLoopValues(b, opts.cfg().SiteTags())
	switch {
	case errors.Is(err, crystal.ErrMissingCoords):
		fmt.Fprintln(w, "sites 0")
	case err != nil:
		return fmt.Errorf("%s: %w", codID, err)
	default:
		fmt.Fprintf(w, "sites %d\n", lv.NRow())
		checkLimit(lv, codID, opts)
	}
	return nil
}
