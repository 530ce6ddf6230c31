// An error implementation that saves the line number and the
// line we were trying to read.
// The key is to call xxxx.fill() where xxxx is the name of the comment
// scanner/cif reader.
package cif

import (
	"errors"
	"strconv"
)

const maxMsgLen = 70

var (
	// ErrNoBlock is returned by SoleBlock when a file has no data block.
	ErrNoBlock = errors.New("no data block")
	// ErrManyBlocks is returned by SoleBlock when there is more than one.
	ErrManyBlocks = errors.New("more than one data block")
)

type readError struct {
	n      int    // line number
	inline string // The line that provoked the error
	desc   string // Description of error
}

// fill stores the problem we have seen for printing
// out when it is convenient. It is in the scanner, but
// can be seen (by inclusion) in the cif reader.
// Only the first error is kept. Anything after it is usually a
// consequence.
func (m *cmmtScanner) fill(desc string, saveLine bool) {
	if !m.Ok {
		return
	}
	m.Ok = false
	if saveLine {
		m.lErr.n = m.n
	}
	m.lErr.inline = string(m.cbytes()) // Saves current line in scanner m
	m.lErr.desc = desc
}

func firstPart(s string) string {
	l := len(s)
	if l > maxMsgLen {
		l = maxMsgLen
	}
	return s[:l]
}

// Error returns the line number, description and the start of the line
// that caused the trouble.
func (e readError) Error() string {
	var errmsg string
	if e.n != 0 {
		errmsg = "Line: " + strconv.Itoa(e.n) + " "
	}
	errmsg += e.desc
	if e.n != 0 && e.inline != "" {
		errmsg += "\nLine starting with\n" + firstPart(e.inline)
	}
	return errmsg
}

// Line returns the line number where the error was seen, or 0.
func (e readError) Line() int { return e.n }
