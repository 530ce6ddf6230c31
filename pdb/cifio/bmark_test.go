package cifio_test

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/cifmeta/pdb/cifio"
)

const nBenchSite = 20000

var benchElem = []string{"C", "H", "N", "O", "Fe", "Cl"}

// makeTestData writes a cif file with a site loop of nSite random
// positions.
func makeTestData(dir string, nSite int) (string, error) {
	fname := filepath.Join(dir, "big.cif")
	fp, err := os.Create(fname)
	if err != nil {
		return "", err
	}
	defer fp.Close()
	w := bufio.NewWriter(fp)
	rnd := rand.New(rand.NewSource(1))
	fmt.Fprintln(w, "data_big\n_chemical_formula_sum 'C6 H6'\n_cell_length_a 10.0(2)")
	fmt.Fprintln(w, "loop_\n_atom_site_label\n_atom_site_fract_x\n_atom_site_fract_y\n_atom_site_fract_z")
	for i := 0; i < nSite; i++ {
		el := benchElem[rnd.Intn(len(benchElem))]
		fmt.Fprintf(w, "%s%d %.4f(3) %.4f %.4f\n", el, i, rnd.Float64(), rnd.Float64(), rnd.Float64())
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return fname, nil
}

func TestBigFile(t *testing.T) {
	fname, err := makeTestData(t.TempDir(), 1000)
	if err != nil {
		t.Fatal(err)
	}
	b, err := cifio.GetCIFBlock(fname, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(b.FindLoop("_atom_site_fract_z")); n != 1000 {
		t.Error("Expected 1000 sites, got", n)
	}
}

func setupbmark(b *testing.B) string {
	b.StopTimer()
	fname, err := makeTestData(b.TempDir(), nBenchSite)
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()
	return fname
}

// BenchmarkByMmap goes through ReadFile, so the file is mapped.
func BenchmarkByMmap(b *testing.B) {
	fname := setupbmark(b)
	for i := 0; i < b.N; i++ {
		if _, err := cifio.ReadFile(fname, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkByReadFile slurps the file first, for comparison.
func BenchmarkByReadFile(b *testing.B) {
	fname := setupbmark(b)
	for i := 0; i < b.N; i++ {
		buf, err := os.ReadFile(fname)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := cifio.ReadFrom(bytes.NewReader(buf), nil); err != nil {
			b.Fatal(err)
		}
	}
}
