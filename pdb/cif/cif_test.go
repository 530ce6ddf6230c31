package cif_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/cifmeta/brokenio"
	. "github.com/andrew-torda/cifmeta/pdb/cif"
)

const testdata string = "testdata"

// getFp opens a file from the testdata directory.
func getFp(fname string, t *testing.T) io.ReadCloser {
	t.Helper()
	fp, err := os.Open(filepath.Join(testdata, fname))
	if err != nil {
		t.Fatal("opening", fname, err)
	}
	return fp
}

func readFile(fname string, t *testing.T) *Doc {
	t.Helper()
	fp := getFp(fname, t)
	defer fp.Close()
	doc, err := NewReader(fp).DoFile()
	if err != nil {
		t.Fatal(err, "file", fname)
	}
	return doc
}

func TestMessyLine(t *testing.T) {
	for _, tt := range []struct {
		in     string
		words  []string
		quoted []bool
	}{
		{`_a 1.0`, []string{"_a", "1.0"}, []bool{false, false}},
		{`'O'Brien' x`, []string{"O'Brien", "x"}, []bool{true, false}},
		{`"a b"  'c'`, []string{"a b", "c"}, []bool{true, true}},
		{`1 2 # three`, []string{"1", "2"}, []bool{false, false}},
		{`C#1 '#'`, []string{"C#1", "#"}, []bool{false, true}},
		{`'Ca'~1~'Ti O3'`, []string{"Ca'~1~'Ti O3"}, []bool{true}},
		{`   `, nil, nil},
	} {
		w, q, err := SplitCifLine([]byte(tt.in))
		if err != nil {
			t.Error("splitting", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.words, w); diff != "" {
			t.Errorf("words of %s (-want +got):\n%s", tt.in, diff)
		}
		if len(tt.words) > 0 {
			if diff := cmp.Diff(tt.quoted, q); diff != "" {
				t.Errorf("quotes of %s (-want +got):\n%s", tt.in, diff)
			}
		}
	}
}

func TestUnterminatedQuote(t *testing.T) {
	if _, _, err := SplitCifLine([]byte(`_a 'not closed`)); err == nil {
		t.Error("wanted error for unterminated quote")
	}
}

func TestCmmtScanner(t *testing.T) {
	ss := "# comment\n\n   # indented comment\nline one\n\t\nline two\n"
	scnr := NewCmmtScanner(strings.NewReader(ss), '#')
	var got []string
	for scnr.Cscan() && scnr.Cbytes() != nil {
		got = append(got, string(scnr.Cbytes()))
	}
	if diff := cmp.Diff([]string{"line one", "line two"}, got); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
}

func TestNaCl(t *testing.T) {
	doc := readFile("nacl.cif", t)
	b, err := doc.SoleBlock()
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "1000041" {
		t.Error("block name", b.Name)
	}
	if tag, v, ok := b.FindPair("_chemical_formula_structural"); !ok || v != "Na Cl" || tag != "_chemical_formula_structural" {
		t.Errorf("FindPair gave %q %q %v", tag, v, ok)
	}
	if v, ok := b.FindValue("_cell_length_a"); !ok || v != "5.62(1)" {
		t.Errorf("cell length a %q %v", v, ok)
	}
	if v, _ := b.FindValue("_publ_section_title"); !strings.HasPrefix(v, "Accuracy") || !strings.HasSuffix(v, "factors") {
		t.Errorf("text field read as %q", v)
	}
	want := []string{"0.", "0.5"}
	if diff := cmp.Diff(want, b.FindLoop("_atom_site_fract_x")); diff != "" {
		t.Errorf("fract_x (-want +got):\n%s", diff)
	}
	if got := b.FindLoop("_atom_site_Wyckoff_symbol"); len(got) != 2 || got[1] != "b" {
		t.Error("Wyckoff column", got)
	}
	if got := b.FindLoop("_atom_site_aniso_label"); got != nil {
		t.Error("missing loop should be nil, got", got)
	}
	if _, _, ok := b.FindPair("_atom_site_label"); ok {
		t.Error("loop names should not be items")
	}
	if n := len(b.Tables()); n != 3 {
		t.Error("expected 3 loops, got", n)
	}
	if tbl, ok := b.FindTable("_atom_site_occupancy"); !ok || tbl.NRow() != 2 || len(tbl.Names) != 8 {
		t.Error("atom site table not right")
	}
	if tags := b.Tags(); len(tags) == 0 || tags[0] != "_publ_section_title" {
		t.Error("tags not in file order", tags)
	}
}

func TestQuartz(t *testing.T) {
	doc := readFile("quartz.cif", t)
	b, ok := doc.Block("QUARTZ")
	if !ok {
		t.Fatal("block lookup should ignore case")
	}
	if v, ok := b.FindValue("_cell_length_a"); !ok || v != "4.9134(2)" {
		t.Error("data names should ignore case, got", v, ok)
	}
	if tag, _, _ := b.FindPair("_cell_length_a"); tag != "_Cell_Length_A" {
		t.Error("FindPair should give name as written, got", tag)
	}
	if v, _ := b.FindValue("_chemical_formula_sum"); v != "O2 Si" {
		t.Error("comment after value not dropped", v)
	}
	v, _ := b.FindValue("_exptl_special_details")
	if want := "   collected at 'room' temperature; \"quoted\" text\n    second line # not a comment"; v != want {
		t.Errorf("text field\n%q\nwant\n%q", v, want)
	}
	if v, _ := b.FindValue("_refine_special_details"); v != "?" {
		t.Error("question mark should be kept, got", v)
	}
	if got := b.FindLoop("_atom_site_fract_y"); len(got) != 2 || got[1] != "0.2672(2)" {
		t.Error("loop with names on the loop_ line", got)
	}
	if _, ok := b.FindValue("_not_kept"); ok {
		t.Error("save frame contents should be skipped")
	}
}

func TestTwoBlocks(t *testing.T) {
	doc := readFile("twoblocks.cif", t)
	if _, err := doc.SoleBlock(); !errors.Is(err, ErrManyBlocks) {
		t.Error("wanted ErrManyBlocks, got", err)
	}
	b, ok := doc.Block("second")
	if !ok {
		t.Fatal("no second block")
	}
	if v, _ := b.FindValue("_chemical_formula_sum"); v != "Ca Ti O3" {
		t.Error("second block formula", v)
	}
	empty := &Doc{}
	if _, err := empty.SoleBlock(); !errors.Is(err, ErrNoBlock) {
		t.Error("wanted ErrNoBlock, got", err)
	}
}

func TestKeepOnly(t *testing.T) {
	fp := getFp("nacl.cif", t)
	defer fp.Close()
	mr := NewReader(fp)
	mr.AddItems([]string{"_CHEMICAL_FORMULA_SUM"})
	mr.AddTable([]string{"_atom_site_label"})
	doc, err := mr.DoFile()
	if err != nil {
		t.Fatal(err)
	}
	b := doc.Blocks[0]
	if _, ok := b.FindValue("_chemical_formula_sum"); !ok {
		t.Error("lost the item we asked for")
	}
	if _, ok := b.FindValue("_cell_length_a"); ok {
		t.Error("kept an item we did not want")
	}
	if len(b.Tables()) != 1 || b.FindLoop("_atom_site_fract_z") == nil {
		t.Error("wanted only the atom site loop, got", len(b.Tables()))
	}
}

var badCif = []struct {
	name string
	in   string
	line int
}{
	{"value without name", "data_x\n_a 1\n2\n", 3},
	{"item before block", "_a 1\n", 1},
	{"no value", "data_x\n_a\n_b 2\n", 2},
	{"duplicate", "data_x\n_a 1\n_A 2\n", 3},
	{"ragged loop", "data_x\nloop_\n_a\n_b\n1 2 3\n", 3},
	{"empty loop", "data_x\nloop_\n_a\n_b\ndata_y\n", 3},
	{"loop no names", "data_x\nloop_\n1 2\n", 3},
	{"unterminated quote", "data_x\n_a 'oops\n", 2},
	{"open text field", "data_x\n_a\n;\nnever closed\n", 3},
	{"open save frame", "data_x\nsave_a\n_b 1\n", 2},
	{"duplicate block", "data_x\ndata_X\n", 2},
}

func TestBadCif(t *testing.T) {
	for _, tt := range badCif {
		_, err := NewReader(strings.NewReader(tt.in)).DoFile()
		if err == nil {
			t.Error(tt.name, "should have failed")
			continue
		}
		if got := ErrLine(err); got != tt.line {
			t.Error(tt.name, "error on line", got, "want", tt.line, "msg:", err)
		}
	}
}

func TestBadTextFile(t *testing.T) {
	fp := getFp("badtext.cif", t)
	defer fp.Close()
	if _, err := NewReader(fp).DoFile(); err == nil {
		t.Error("unterminated text field not noticed")
	}
}

func TestZeroLength(t *testing.T) {
	if _, err := NewReader(strings.NewReader("")).DoFile(); err == nil {
		t.Error("zero length file should be an error")
	}
	doc, err := NewReader(strings.NewReader("# only a comment\n")).DoFile()
	if err != nil || len(doc.Blocks) != 0 {
		t.Error("comment only file", err)
	}
	var mr *Reader
	if _, err := mr.DoFile(); err == nil {
		t.Error("nil reader should give an error")
	}
}

// TestBrokenReader checks that a failing reader is an error and not
// a short file.
func TestBrokenReader(t *testing.T) {
	fp := getFp("nacl.cif", t)
	defer fp.Close()
	rdr := brokenio.NewReader(fp, 300)
	_, err := NewReader(rdr).DoFile()
	if err == nil {
		t.Fatal("read failure was not passed back")
	}
	if !strings.Contains(err.Error(), brokenio.ErrBroken.Error()) {
		t.Error("unexpected error", err)
	}
}

func TestFirstErrorKept(t *testing.T) {
	mr := NewReader(strings.NewReader("data_x\n"))
	err := mr.FailTwice(2, 5)
	if n := ErrLine(err); n != 2 {
		t.Error("wanted the first error at line 2, got line", n)
	}
	if s := err.Error(); !strings.Contains(s, "first") || strings.Contains(s, "second") {
		t.Errorf("later error should be dropped, got %q", s)
	}
}
