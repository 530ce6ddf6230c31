package zwrap_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/cifmeta/pdb/zwrap"
)

const plain = "data_x\n_cell_length_a 5.0\n"

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// writeToTmp writes data to a temporary file and returns it, open
// and rewound.
func writeToTmp(t *testing.T, data []byte) *os.File {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "del_me_testing")
	if err := os.WriteFile(fname, data, 0o600); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	return fp
}

func TestWrapMaybe(t *testing.T) {
	for _, x := range []struct {
		data       []byte
		compressed bool
	}{
		{gzipped(t, plain), true},
		{[]byte(plain), false},
		{[]byte("d"), false},
		{nil, false},
	} {
		fp := writeToTmp(t, x.data)
		rdr, err := zwrap.WrapMaybe(fp)
		if err != nil {
			t.Fatal(err)
		}
		if rdr.Compressed() != x.compressed {
			t.Error("compressed should be", x.compressed)
		}
		got, err := io.ReadAll(rdr)
		if err != nil {
			t.Error(err)
		}
		want := string(x.data)
		if x.compressed {
			want = plain
		}
		if string(got) != want {
			t.Errorf("got \"%s\" want \"%s\"", got, want)
		}
		if err := rdr.Close(); err != nil {
			t.Error("closing", err)
		}
	}
}

func TestWrapBytes(t *testing.T) {
	rdr, err := zwrap.WrapBytes(gzipped(t, plain))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(rdr)
	if string(got) != plain {
		t.Error("got", string(got))
	}
	if err := rdr.Close(); err != nil {
		t.Error(err)
	}
}

func TestWrapNotGzip(t *testing.T) {
	if _, err := zwrap.Wrap(io.NopCloser(bytes.NewReader([]byte(plain)))); err == nil {
		t.Error("Wrap should fail on plain text")
	}
	if !zwrap.IsGzip(gzipped(t, "")) || zwrap.IsGzip([]byte(plain)) {
		t.Error("IsGzip is confused")
	}
}
