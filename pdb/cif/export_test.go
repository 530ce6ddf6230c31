package cif

// Export some internal functions for testing

func (s *cmmtScanner) Cbytes() []byte   { return s.cbytes() }
func (s *cmmtScanner) Cscan() (ok bool) { return s.cscan() }

var NewCmmtScanner = newCmmtScanner

// SplitCifLine returns the words of a line as strings and whether each
// was quoted.
func SplitCifLine(b []byte) ([]string, []bool, error) {
	w, err := splitCifLine(b, nil)
	if err != nil || len(w) == 0 {
		return nil, nil, err
	}
	s := make([]string, len(w))
	q := make([]bool, len(w))
	for i := range w {
		s[i], q[i] = string(w[i].b), w[i].quoted
	}
	return s, q, nil
}

// ErrLine gets the line number from a read error.
func ErrLine(err error) int {
	if e, ok := err.(readError); ok {
		return e.Line()
	}
	return -1
}

// FailTwice records two errors, at lines l1 and l2.
func (mr *Reader) FailTwice(l1, l2 int) error {
	mr.cur.line = l1
	mr.failf("first")
	mr.cur.line = l2
	mr.failf("second")
	return mr.lErr
}
