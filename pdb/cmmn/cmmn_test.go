package cmmn_test

import (
	"testing"

	. "github.com/andrew-torda/cifmeta/pdb/cmmn"
)

func TestXyzOk(t *testing.T) {
	var xyz Xyz
	xyz = BrokenXyz
	if xyz.Ok() {
		t.Error("cannot even check if a value is OK")
	}
	xyz = Xyz{0.5, 0.25, 0}
	if !xyz.Ok() {
		t.Error("OK should be true")
	}
}

func TestRemoveBracket(t *testing.T) {
	for _, tt := range []struct{ in, out string }{
		{"1.234(5)", "1.234"},
		{"5.4307", "5.4307"},
		{"90", "90"},
		{"120.00(12)", "120.00"},
		{" 3.1(2) ", "3.1"},
		{"1(2)3(4)", "13"},
		{"7.5(", "7.5"},
		{"?", "?"},
		{"", ""},
	} {
		if got := RemoveBracket(tt.in); got != tt.out {
			t.Errorf("RemoveBracket(%q) = %q, want %q", tt.in, got, tt.out)
		}
	}
}
