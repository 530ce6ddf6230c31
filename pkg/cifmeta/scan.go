package cifmeta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/cifmeta/pdb/cifio"
	"github.com/andrew-torda/cifmeta/pkg/crystal"
)

// fileRes is what one reader finds out about one file. Each file has
// its own slot, so the readers never share anything.
type fileRes struct {
	name     string
	formula  crystal.Formula
	nPos     int
	noCoords bool
	over     bool
	err      error
}

// ElemCount is how many files have an element in their formula.
type ElemCount struct {
	Sym    string
	NFiles int
}

// ScanResult summarises a directory.
type ScanResult struct {
	NFile     int
	Failed    []string // names of files that could not be read
	NoCoords  int      // files without a usable site loop
	Elements  []ElemCount
	OverLimit []string // files with more positions than max_atoms
}

// isCif is true for names ending in .cif or .cif.gz, in any case.
func isCif(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".cif") || strings.HasSuffix(n, ".cif.gz")
}

// listCif walks dir and returns the cif files in lexical order.
func listCif(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isCif(d.Name()) {
			names = append(names, path)
		}
		return nil
	})
	return names, err
}

// eatCif reads one file, keeping only the formula and the site loop.
func eatCif(fname string, opts *Options) fileRes {
	cfg := opts.cfg()
	tags := cfg.SiteTags()
	ropts := &cifio.Options{
		Items:  []string{crystal.TagFormulaStructural, crystal.TagFormulaSum},
		Tables: []string{tags[crystal.ColFractX]},
		Log:    opts.log(),
	}
	res := fileRes{name: fname}
	b, err := cifio.GetCIFBlock(fname, ropts)
	if err != nil {
		res.err = err
		return res
	}
	if res.formula, _, _, err = formula(b, cfg.StrictFormula); err != nil {
		res.err = fmt.Errorf("%s: %w", fname, err)
		return res
	}
	lv, err := crystal.GetLoopValues(b, tags)
	if errors.Is(err, crystal.ErrMissingCoords) {
		res.noCoords = true
		return res
	}
	if err != nil {
		res.err = fmt.Errorf("%s: %w", fname, err)
		return res
	}
	if res.over, res.nPos, err = overLimit(lv, cfg.MaxAtoms); err != nil {
		res.err = fmt.Errorf("%s: %w", fname, err)
	}
	return res
}

// Scan reads every cif file under dir, config.Readers at a time, and
// writes a summary to w. The config is checked first, so a hand-built
// one with no readers is an error. A broken file is counted and logged, but does
// not stop the scan. Only cancelling ctx or failing to walk dir does.
func Scan(ctx context.Context, w io.Writer, dir string, opts *Options) (*ScanResult, error) {
	cfg := opts.cfg()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	names, err := listCif(dir)
	if err != nil {
		return nil, err
	}
	log := opts.log()
	log.Info("scanning", "dir", dir, "files", len(names), "readers", cfg.Readers)

	results := make([]fileRes, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Readers)
	for i, fname := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = eatCif(fname, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rslt := collect(results)
	for _, r := range results {
		if r.err != nil {
			log.Warn("skipping", "file", r.name, "err", r.err)
		}
	}
	writeScan(w, rslt)
	return rslt, nil
}

// collect merges the per file results. Files are in name order, so the
// lists come out the same every time.
func collect(results []fileRes) *ScanResult {
	rslt := &ScanResult{NFile: len(results)}
	nummap := make(map[string]int)
	for _, r := range results {
		switch {
		case r.err != nil:
			rslt.Failed = append(rslt.Failed, r.name)
			continue
		case r.noCoords:
			rslt.NoCoords++
		case r.over:
			rslt.OverLimit = append(rslt.OverLimit, r.name)
		}
		seen := make(map[string]bool)
		for _, ec := range r.formula {
			if !seen[ec.Sym] {
				seen[ec.Sym] = true
				nummap[ec.Sym]++
			}
		}
	}
	for sym, n := range nummap {
		rslt.Elements = append(rslt.Elements, ElemCount{Sym: sym, NFiles: n})
	}
	sort.Slice(rslt.Elements, func(i, j int) bool {
		a, b := rslt.Elements[i], rslt.Elements[j]
		if a.NFiles != b.NFiles {
			return a.NFiles > b.NFiles
		}
		return a.Sym < b.Sym
	})
	return rslt
}

func writeScan(w io.Writer, r *ScanResult) {
	fmt.Fprintf(w, "files %d\nfailed %d\nno coordinates %d\nover atom limit %d\n",
		r.NFile, len(r.Failed), r.NoCoords, len(r.OverLimit))
	for _, f := range r.OverLimit {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w, "\"element\",\"n\"")
	for _, e := range r.Elements {
		fmt.Fprintf(w, "\"%s\",%d\n", e.Sym, e.NFiles)
	}
}
