// Package brokenio wraps an io.Reader so that it breaks after a given
// number of bytes. Tests use it to check that read errors from a file,
// a decompressor or an http body come back out of the cif readers
// instead of being taken for the end of the file.
// Typical use:
//
//	rdr = brokenio.NewReader(rdr, 100)
//
// Everything then works as before, until byte 100.
package brokenio

import (
	"errors"
	"fmt"
	"io"
)

// ErrBroken is what Read returns once the limit is reached.
var ErrBroken = errors.New("brokenio: artificial read failure")

// BrknRdr is modelled on the readers in the standard library, but it
// returns ErrBroken once failAfter bytes have been delivered.
// If verbose is set, Close reports how much went through.
type BrknRdr struct {
	rdrOrig   io.Reader // Wrapped reader
	failAfter int
	nCalled   int
	nByte     int
	verbose   bool
	out       io.Writer
}

// NewReader returns a reader which fails after failAfter bytes.
// A negative failAfter means never fail.
func NewReader(rIn io.Reader, failAfter int) *BrknRdr {
	return &BrknRdr{rdrOrig: rIn, failAfter: failAfter}
}

// SetVerbose turns on a report, written to w, when the reader is closed.
func (r *BrknRdr) SetVerbose(w io.Writer) { r.verbose, r.out = w != nil, w }

// NByte is the number of bytes delivered so far.
func (r *BrknRdr) NByte() int { return r.nByte }

// Read passes reads through to the original reader, but trims them so
// the total never goes past the limit. At the limit it returns ErrBroken.
func (r *BrknRdr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err = r.rdrOrig.Read(p)
	r.nByte += n
	return n, err
}

// Close closes the original reader if it can be closed.
func (r *BrknRdr) Close() error {
	if r.verbose {
		fmt.Fprintln(r.out, "Closing", r.nCalled, "calls and", r.nByte, "bytes")
	}
	if c, ok := r.rdrOrig.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
