// Go to the Crystallography Open Database and download a cif file.
// Entries are at https://www.crystallography.net/cod/1000041.cif and
// the server is happy to hand out gzipped copies if we ask for them.

package cifio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andrew-torda/cifmeta/pdb/cif"
	"github.com/andrew-torda/cifmeta/pdb/zwrap"
)

// DefaultBaseURL is where COD entries live.
const DefaultBaseURL = "https://www.crystallography.net/cod/"

const codIDLen = 7 // COD numbers are seven digits

// Fetcher downloads entries. The zero value uses DefaultBaseURL and
// http.DefaultClient.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
	Gzip    bool // ask for .cif.gz rather than .cif
	Opts    *Options
}

// checkID makes sure we have a seven digit number, so nobody can put
// a path in the url.
func checkID(codID string) error {
	if len(codID) != codIDLen {
		return fmt.Errorf("COD id should be %d digits, not %q", codIDLen, codID)
	}
	for i := 0; i < len(codID); i++ {
		if codID[i] < '0' || codID[i] > '9' {
			return fmt.Errorf("COD id should be %d digits, not %q", codIDLen, codID)
		}
	}
	return nil
}

// URL says where an entry would be downloaded from.
func (f *Fetcher) URL(codID string) (string, error) {
	if err := checkID(codID); err != nil {
		return "", err
	}
	base := f.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	suffix := ".cif"
	if f.Gzip {
		suffix = ".cif.gz"
	}
	return base + codID + suffix, nil
}

// body makes the request and, if we asked for a gzipped file, wraps the
// body so the caller always sees plain text.
func (f *Fetcher) body(ctx context.Context, codID string) (io.ReadCloser, error) {
	url, err := f.URL(codID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("wanted %s using %s, got %s", codID, url, resp.Status)
	}
	if !f.Gzip {
		return resp.Body, nil
	}
	zr, err := zwrap.Wrap(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return zr, nil
}

// FetchRaw downloads an entry and returns the uncompressed text.
func (f *Fetcher) FetchRaw(ctx context.Context, codID string) ([]byte, error) {
	rc, err := f.body(ctx, codID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", codID, err)
	}
	f.Opts.logger().Debug("fetched", "cod_id", codID, "bytes", len(b))
	return b, nil
}

// Fetch downloads and parses an entry.
func (f *Fetcher) Fetch(ctx context.Context, codID string) (*cif.Doc, error) {
	b, err := f.FetchRaw(ctx, codID)
	if err != nil {
		return nil, err
	}
	doc, err := ReadFrom(bytes.NewReader(b), f.Opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", codID, err)
	}
	return doc, nil
}
