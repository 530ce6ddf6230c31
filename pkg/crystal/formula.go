package crystal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Formula data names, in order of preference.
const (
	TagFormulaStructural = "_chemical_formula_structural"
	TagFormulaSum        = "_chemical_formula_sum"
)

// ErrFormulaResidue is returned by ParseFormulaStrict when part of a
// formula is not an element symbol followed by an optional count.
var ErrFormulaResidue = errors.New("unparsed characters in formula")

// ElemCount is one element symbol with the number written after it.
type ElemCount struct {
	Sym string
	N   int
}

// Formula is the list of element counts in the order they were written.
// A symbol written twice appears twice.
type Formula []ElemCount

// NUnique is the number of different element symbols.
func (f Formula) NUnique() int {
	seen := make(map[string]struct{}, len(f))
	for _, ec := range f {
		seen[ec.Sym] = struct{}{}
	}
	return len(seen)
}

// String writes the formula back out with every count explicit,
// so Fe2O3 stays Fe2O3 and CaTiO3 becomes Ca1Ti1O3.
func (f Formula) String() string {
	var b strings.Builder
	for _, ec := range f {
		b.WriteString(ec.Sym)
		b.WriteString(strconv.Itoa(ec.N))
	}
	return b.String()
}

// Residue is a piece of a formula that the tokenizer skipped. Pos is the
// byte offset in the cleaned formula.
type Residue struct {
	Pos  int
	Text string
}

// CleanFormula removes single quotes, tildes and spaces.
func CleanFormula(s string) string {
	return strings.NewReplacer("'", "", "~", "", " ", "").Replace(s)
}

// findFormula gets the raw formula, structural first, then sum.
func findFormula(b Block) (string, bool) {
	for _, tag := range []string{TagFormulaStructural, TagFormulaSum} {
		if _, val, ok := b.FindPair(tag); ok {
			return val, true
		}
	}
	return "", false
}

// ExtractFormulaAndAtoms finds the formula of a block, cleans it and
// breaks it into element counts. It returns the counts, the number of
// different elements and the cleaned formula. With no formula, or one
// that is empty once cleaned, it returns nil, 0, "". Characters that do
// not fit are dropped without complaint.
func ExtractFormulaAndAtoms(b Block) (Formula, int, string) {
	raw, ok := findFormula(b)
	if !ok {
		return nil, 0, ""
	}
	clean := CleanFormula(raw)
	if clean == "" {
		return nil, 0, ""
	}
	f, _ := TokenizeFormula(clean)
	return f, f.NUnique(), clean
}

// ParseFormulaStrict is ExtractFormulaAndAtoms, but any skipped
// characters give an error wrapping ErrFormulaResidue.
func ParseFormulaStrict(b Block) (Formula, int, string, error) {
	raw, ok := findFormula(b)
	if !ok {
		return nil, 0, "", nil
	}
	clean := CleanFormula(raw)
	if clean == "" {
		return nil, 0, "", nil
	}
	f, res := TokenizeFormula(clean)
	if len(res) > 0 {
		return f, f.NUnique(), clean, fmt.Errorf("%w: %q at %d in %q",
			ErrFormulaResidue, res[0].Text, res[0].Pos, clean)
	}
	return f, f.NUnique(), clean, nil
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// fState holds the state of the formula tokenizer.
type fState struct {
	s      string
	start  int // start of the current symbol, count or residue
	symEnd int
	f      Formula
	res    []Residue
}

type ffn func(i int, c byte, st *fState) ffn // state function

// emit finishes a symbol and its count, which runs up to i.
func (st *fState) emit(i int) {
	sym := st.s[st.start:st.symEnd]
	digits := st.s[st.symEnd:i]
	n := 1
	if digits != "" {
		var err error
		if n, err = strconv.Atoi(digits); err != nil { // only on overflow
			st.res = append(st.res, Residue{Pos: st.start, Text: st.s[st.start:i]})
			return
		}
	}
	st.f = append(st.f, ElemCount{Sym: sym, N: n})
}

// ffnJunk is outside any symbol. Upper case starts a symbol, anything
// else is residue.
func ffnJunk(i int, c byte, st *fState) ffn {
	if isUpper(c) {
		if st.start < i {
			st.res = append(st.res, Residue{Pos: st.start, Text: st.s[st.start:i]})
		}
		st.start = i
		return ffnSym
	}
	return ffnJunk
}

// ffnSym is in the lower case tail of a symbol.
func ffnSym(i int, c byte, st *fState) ffn {
	if isLower(c) {
		return ffnSym
	}
	st.symEnd = i
	return ffnCount(i, c, st)
}

// ffnCount is in the digits after a symbol.
func ffnCount(i int, c byte, st *fState) ffn {
	if isDigit(c) {
		return ffnCount
	}
	st.emit(i)
	st.start = i
	return ffnJunk(i, c, st)
}

// TokenizeFormula breaks a cleaned formula into element counts. An
// element is an upper case letter and any lower case letters after it;
// the digits that follow are the count, 1 if there are none. Everything
// else is returned as residue, in order.
func TokenizeFormula(s string) (Formula, []Residue) {
	st := &fState{s: s}
	state := ffnJunk
	for i := 0; i < len(s); i++ {
		state = state(i, s[i], st)
	}
	state(len(s), 0, st) // a zero byte is never part of a token
	if st.start < len(s) {
		st.res = append(st.res, Residue{Pos: st.start, Text: s[st.start:]})
	}
	return st.f, st.res
}
