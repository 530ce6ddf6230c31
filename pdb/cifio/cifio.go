// Package cifio gets cif files off the disc or from the Crystallography
// Open Database and hands back a parsed cif.Doc.
// Files are mapped into memory, not read, and may be gzipped.
package cifio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/cifmeta/pdb/cif"
	"github.com/andrew-torda/cifmeta/pdb/zwrap"
)

// Options restrict what the reader keeps. The zero value keeps
// everything.
type Options struct {
	Items  []string     // single data items to keep
	Tables []string     // keep loops containing one of these names
	Log    *slog.Logger // nil means slog.Default()
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

// ReadFrom parses whatever comes from r, which may be gzipped if it can
// seek.
func ReadFrom(r io.Reader, opts *Options) (*cif.Doc, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		zr, err := zwrap.WrapMaybe(rs)
		if err != nil {
			return nil, err
		}
		r = zr
	}
	rdr := cif.NewReader(r)
	if rdr == nil {
		return nil, errors.New("nil reader")
	}
	rdr.SetLogger(opts.logger())
	if opts != nil {
		rdr.AddItems(opts.Items)
		rdr.AddTable(opts.Tables)
	}
	return rdr.DoFile()
}

// ReadFile maps fname into memory and parses it. The mapping is gone by
// the time we return, and nothing in the Doc points into it.
func ReadFile(fname string, opts *Options) (*cif.Doc, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 { // mmap will not map an empty file
		return nil, fmt.Errorf("reading %s: zero length file", fname)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer mm.Unmap()

	zr, err := zwrap.WrapBytes(mm)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	defer zr.Close()
	opts.logger().Debug("mapped", "file", fname, "bytes", len(mm), "gzip", zr.Compressed())
	doc, err := ReadFrom(zr, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return doc, nil
}

// GetCIFBlock reads a file that should hold exactly one data block,
// which is what the COD gives us.
func GetCIFBlock(fname string, opts *Options) (*cif.Block, error) {
	doc, err := ReadFile(fname, opts)
	if err != nil {
		return nil, err
	}
	b, err := doc.SoleBlock()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return b, nil
}
