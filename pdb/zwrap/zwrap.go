// Package zwrap takes a source of cif text and, if it is gzipped, wraps
// it so reads come from the decompressor. Close closes the decompressor,
// followed by the underlying source.
// Files ending in .cif.gz are common, but so are misnamed ones, so we
// look at the first two bytes rather than the name.
package zwrap

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
)

var gzipMagic = []byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   io.Reader
	zrdr *gzip.Reader
}

// IsGzip says if b starts like a gzip stream.
func IsGzip(b []byte) bool {
	return bytes.HasPrefix(b, gzipMagic)
}

// Close closes the decompressor, then the underlying source if it can
// be closed. It should work if the source is a file, an http body or a
// slice of bytes.
func (fc *FpGzip) Close() error {
	var errs []error
	if fc.zrdr != nil {
		errs = append(errs, fc.zrdr.Close())
	}
	if c, ok := fc.fp.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Read makes sure we read from the compressed stream and
// not the underlying stream.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.fp.Read(p)
}

// Compressed says if reads go through a decompressor.
func (fc *FpGzip) Compressed() bool { return fc.zrdr != nil }

// Wrap takes a source we know to be compressed, like the body of an
// http response for a .cif.gz file, and wraps it.
func Wrap(fp io.ReadCloser) (*FpGzip, error) {
	zrdr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, zrdr: zrdr}, nil
}

// WrapMaybe will decide if the underlying stream is compressed
// and wrap it if necessary. It reads the first two bytes and then seeks
// back to the start.
func WrapMaybe(fpIn io.ReadSeeker) (*FpGzip, error) {
	var magic [2]byte
	n, err := io.ReadFull(fpIn, magic[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if _, err := fpIn.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	r := &FpGzip{fp: fpIn}
	if !IsGzip(magic[:n]) {
		return r, nil // Leave the zrdr nil
	}
	if r.zrdr, err = gzip.NewReader(fpIn); err != nil {
		return nil, err
	}
	return r, nil
}

// WrapBytes is WrapMaybe for data already in memory, like a mapped file.
func WrapBytes(b []byte) (*FpGzip, error) {
	return WrapMaybe(bytes.NewReader(b))
}
