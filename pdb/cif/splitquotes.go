// Splitting lines at spaces and quotes.

/* from https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
               character or string role
_ (underscore) identifies data name
#              identifies comment
$              identifies save frame pointer
'              delimits non-simple data values
"              delimits non-simple data values
[              reserved opening delimiter for non-simple data values (see paragraph 19)
]              reserved closing delimiter for non-simple data values (see paragraph 19)
; at beginning of line of text delimits non-simple data values
data_          identifies data block header (case-insensitive)
save_          identifies save frame header or terminator (case-insensitive)
*/

package cif

import (
	"errors"
)

const (
	squote byte = '\''
	dquote byte = '"'
	cmmt   byte = '#'
)

// A word is one piece of a line. Quoted words can never be keywords
// or data names.
type word struct {
	b      []byte
	quoted bool
}

// iswhite only works for ascii spaces
var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// iswhite returns true if a byte is on the list of white space characters.
func iswhite(b byte) bool {
	return asciiSpace[b]
}

// isquote not only checks if we have a quote character, but also
func isquote(b byte, qtype *byte) bool { // stores its type
	if b == squote || b == dquote { //     (single or double) so we can
		*qtype = b  //                      look for the
		return true //                      corresponding closing quote
	}
	return false
}

type sInfo struct { // Holds the state of the state functions
	err     error
	ret     []word // This is what we will really return
	byteIn  []byte
	nxtIndx int
	qtype   byte // type of quote
}
type sfn func(i int, c byte, s *sInfo) sfn // state function

func sfnInQuote(i int, c byte, sInfo *sInfo) sfn { // in quoted region
	if c == sInfo.qtype {
		return sfnExitQuote
	}
	if c == '\n' {
		sInfo.err = errors.New("unterminated quote line: " + string(sInfo.byteIn))
		return sfnWhite
	}
	return sfnInQuote
}

func sfnExitQuote(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) { // quote followed by white really ends a quoted region
		t := sInfo.byteIn[sInfo.nxtIndx : i-1]
		sInfo.ret = append(sInfo.ret, word{b: t, quoted: true})
		return sfnWhite
	}
	if c == sInfo.qtype { // two quotes in a row, the second may close
		return sfnExitQuote
	}
	return sfnInQuote // but if a character comes, we go back to quoted region
}

func sfnInText(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) {
		t := sInfo.byteIn[sInfo.nxtIndx:i]
		sInfo.ret = append(sInfo.ret, word{b: t})
		return sfnWhite
	}
	return sfnInText
}

// sfnComment eats the rest of the line.
func sfnComment(i int, c byte, sInfo *sInfo) sfn { return sfnComment }

func sfnWhite(i int, c byte, sInfo *sInfo) sfn { // in white space region
	switch {
	case iswhite(c):
		return sfnWhite
	case c == cmmt:
		return sfnComment
	case isquote(c, &sInfo.qtype):
		sInfo.nxtIndx = i + 1
		return sfnInQuote
	default:
		sInfo.nxtIndx = i
		return sfnInText
	}
}

// splitCifLine takes a byte slice and returns the words in it. They are
// separated by spaces and matching quotes. A "#" at the start of a word
// ends the line.
// We have a small finite state machine. When we leave text or
// a quote followed by a space, we save the word and append it to "ret".
// The words point into byteIn, so copy them before the next scan.
func splitCifLine(byteIn []byte, retIn []word) ([]word, error) {
	if len(byteIn) < 1 {
		return nil, nil
	}

	var sInfo = sInfo{ret: retIn[:0], byteIn: byteIn}

	state := sfnWhite
	for i, c := range byteIn {
		state = state(i, c, &sInfo)
	}
	state(len(byteIn), '\n', &sInfo) // end with newline, catches unterminated quotes
	if sInfo.err != nil {            // Just check at end, to avoid if statements within loop
		return nil, sInfo.err
	}
	return sInfo.ret, nil
}
