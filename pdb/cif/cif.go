package cif

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
)

const maxLine = 1024 * 1024 // longest line the scanner will accept

// Usually one reads a file and keeps everything, since small molecule
// files are small. If the caller only wants some things, they say so
// with AddItems and AddTable and everything else is dropped.

// A token is one value, data name or keyword, with the line it came from.
// Quoted values and text fields are never keywords.
type token struct {
	val    string
	quoted bool
	line   int
}

// Reader is the object which will do the reading of cif data.
// We do not return information here. Here is where we store instructions
// to the reader and its state while reading.
type Reader struct {
	cmmtScanner
	dataToKeep   map[string]bool
	tablesToKeep map[string]bool
	log          *slog.Logger
	pending      []token // tokens from the current line, not yet used
	cur          token
	eof          bool
	headers      []token
	blk          *Block // block we are filling
	scrtch       []word
}

// NewReader returns an object to read cif files.
// It is given a reader, so the caller must have decided if it is
// a file, compressed file, http source, whatever.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		return nil
	}
	return &Reader{
		cmmtScanner:  newCmmtScanner(r, cmmt),
		dataToKeep:   make(map[string]bool),
		tablesToKeep: make(map[string]bool),
		log:          slog.Default(),
		scrtch:       make([]word, 0, 16),
	}
}

// SetLogger replaces the default logger.
func (mr *Reader) SetLogger(l *slog.Logger) {
	if l != nil {
		mr.log = l
	}
}

// AddItems adds data names of single items that we will keep.
func (mr *Reader) AddItems(s []string) {
	for _, a := range s {
		mr.dataToKeep[strings.ToLower(a)] = true
	}
}

// AddTable tells us that if we see a loop containing one of these data
// names, we keep the whole loop.
func (mr *Reader) AddTable(s []string) {
	for _, a := range s {
		mr.tablesToKeep[strings.ToLower(a)] = true
	}
}

// keepAll is true if nobody asked for anything in particular.
func (mr *Reader) keepAll() bool {
	return len(mr.dataToKeep) == 0 && len(mr.tablesToKeep) == 0
}

// cmmtScanner is a wrapper around bufio.Scanner that jumps over blank
// lines and lines which are only a comment.
// It also counts newlines in n, so we can print out the line
// number in error messages.
type cmmtScanner struct {
	*bufio.Scanner           // standard library scanner
	lErr           readError // fill this out as soon as an error happens
	ctoken         []byte    // Store the bytes that will be returned by cbytes()
	n              int       // line number in the cif file
	cmmt           byte      // Comment character
	Ok             bool      // Are we OK or have we had an error ?
}

// newCmmtScanner is a wrapper around scanner, but
//   - jumps over blank lines
//   - jumps over lines whose first non-blank character is the comment character
//
// A Reader contains a cmmtScanner.
func newCmmtScanner(r io.Reader, cmmt byte) cmmtScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return cmmtScanner{
		Scanner: s,
		cmmt:    cmmt,
		Ok:      true,
	}
}

// cscan is a wrapper around the library Scan(). It adds a newline counter
// for error messages. It jumps over blank lines and comment lines.
// When finished, it sets "ctoken" to point to the line, or nil at the end
// of the file. It returns false only on a real error.
func (s *cmmtScanner) cscan() (ok bool) {
	if !s.Ok { // an earlier error stands
		s.ctoken = nil
		return false
	}
	for {
		b, more := s.rawScan()
		if !more {
			return s.Ok
		}
		t := bytes.TrimLeft(b, " \t")
		if len(t) == 0 || t[0] == s.cmmt {
			continue
		}
		return true
	}
}

// rawScan gets the next line without skipping anything. This is what we
// want inside a text field. more is false at the end of the file or on
// an error.
func (s *cmmtScanner) rawScan() (b []byte, more bool) {
	if !s.Scan() {
		s.ctoken = nil
		if err := s.Err(); err != nil {
			s.fill(err.Error(), true)
		}
		return nil, false
	}
	s.n++
	s.ctoken = s.Bytes()
	return s.ctoken, true
}

// cbytes is like Bytes from the library, but returns the current line
// after the skipping done by cscan.
func (s *cmmtScanner) cbytes() []byte {
	return s.ctoken
}

// textField reads a text field. The current line starts with ";".
// Lines are read until one starts with ";". Anything after that closing
// ";" is returned so it can be split like a normal line.
func (mr *Reader) textField() (val string, rest []byte, ok bool) {
	const msg = "text field not closed before end of file"
	first := mr.n
	lines := []string{string(mr.cbytes()[1:])}
	for {
		b, more := mr.rawScan()
		if !more {
			if mr.Ok {
				mr.lErr.n = first
				mr.fill(msg, false)
			}
			return "", nil, false
		}
		if len(b) > 0 && b[0] == ';' {
			rest = make([]byte, len(b)-1)
			copy(rest, b[1:])
			break
		}
		lines = append(lines, string(b))
	}
	if lines[0] == "" { // text usually starts on the line after the ";"
		lines = lines[1:]
	}
	return strings.Join(lines, "\n"), rest, true
}

// fillPending reads lines until there is at least one token, or the file
// is finished.
func (mr *Reader) fillPending() bool {
	for len(mr.pending) == 0 {
		if !mr.cscan() || mr.cbytes() == nil {
			return false
		}
		line := mr.cbytes()
		if line[0] == ';' {
			val, rest, ok := mr.textField()
			if !ok {
				return false
			}
			mr.pending = append(mr.pending, token{val: val, quoted: true, line: mr.n})
			if !mr.splitPending(rest) {
				return false
			}
			continue
		}
		if !mr.splitPending(line) {
			return false
		}
	}
	return true
}

// splitPending breaks a line into tokens and queues them. We have to
// make new strings, since calls to scan() will update the underlying buffer.
func (mr *Reader) splitPending(line []byte) bool {
	t, err := splitCifLine(line, mr.scrtch)
	if err != nil {
		mr.fill(err.Error(), true)
		return false
	}
	for _, w := range t {
		mr.pending = append(mr.pending, token{val: string(w.b), quoted: w.quoted, line: mr.n})
	}
	return true
}

// advance moves to the next token. At the end of the file, eof is set.
func (mr *Reader) advance() {
	if len(mr.pending) == 0 && !mr.fillPending() {
		mr.eof = true
		mr.cur = token{}
		return
	}
	mr.cur, mr.pending = mr.pending[0], mr.pending[1:]
}

// failf records an error at the line of the current token.
func (mr *Reader) failf(desc string) {
	if !mr.Ok {
		return
	}
	mr.fill(desc, true)
	if mr.cur.line != 0 {
		mr.lErr.n = mr.cur.line
	}
}

// Token classification. Only unquoted tokens can be keywords or names.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func (t token) isTag() bool   { return !t.quoted && strings.HasPrefix(t.val, "_") }
func (t token) isLoop() bool  { return !t.quoted && strings.EqualFold(t.val, "loop_") }
func (t token) isData() bool  { return !t.quoted && hasPrefixFold(t.val, "data_") }
func (t token) isSave() bool  { return !t.quoted && hasPrefixFold(t.val, "save_") }
func (t token) isOther() bool { // global_ and stop_ are reserved, but not used in CIF
	return !t.quoted && (strings.EqualFold(t.val, "global_") || strings.EqualFold(t.val, "stop_"))
}

func (t token) isValue() bool {
	return t.quoted || !(t.isTag() || t.isLoop() || t.isData() || t.isSave() || t.isOther())
}

// stateFn is the type of state function. It returns the next
// state function that should act on its input.
type stateFn func(*Reader, *Doc) stateFn

// stateTop looks at the current token and decides what state to jump
// to next.
func stateTop(mr *Reader, _ *Doc) stateFn {
	if !mr.Ok || mr.eof {
		return nil
	}
	t := mr.cur
	switch {
	case t.isData():
		return stateData
	case t.isLoop():
		return stateLoop
	case t.isTag():
		return stateDItem
	case t.isSave():
		return stateSkipFrame
	case t.isOther():
		return stateSkipGlobal
	default:
		return stateUnknown
	}
}

// stateUnknown should be reached if we are confused and do not know
// what to do. It is an error and we should stop
func stateUnknown(mr *Reader, _ *Doc) stateFn {
	mr.failf("found value \"" + firstPart(mr.cur.val) + "\" without a data name")
	return nil
}

// stateData starts a new data block.
func stateData(mr *Reader, doc *Doc) stateFn {
	name := mr.cur.val[len("data_"):]
	if name == "" {
		mr.failf("data block without a name")
		return nil
	}
	if _, ok := doc.Block(name); ok {
		mr.failf("data block with name " + name + " already exists")
		return nil
	}
	mr.blk = newBlock(name)
	doc.Blocks = append(doc.Blocks, mr.blk)
	mr.advance()
	return stateTop
}

// needBlock complains if we have data before any data_ heading.
func (mr *Reader) needBlock() bool {
	if mr.blk == nil {
		mr.failf("data before the first data_ heading")
		return false
	}
	return true
}

// stateDItem gets a data item, a name followed by one value.
func stateDItem(mr *Reader, _ *Doc) stateFn {
	if !mr.needBlock() {
		return nil
	}
	tag := mr.cur
	mr.advance()
	if mr.eof || !mr.cur.isValue() {
		if mr.Ok {
			mr.cur.line = tag.line
			mr.failf("no value for data name " + tag.val)
		}
		return nil
	}
	ltag := strings.ToLower(tag.val)
	if mr.keepAll() || mr.dataToKeep[ltag] {
		if mr.blk.hasTag(ltag) {
			mr.failf("data name " + tag.val + " already exists in block " + mr.blk.Name)
			return nil
		}
		mr.blk.items[ltag] = item{tag: tag.val, val: mr.cur.val}
		mr.blk.order = append(mr.blk.order, ltag)
	}
	mr.advance()
	return stateTop
}

// stateLoop is where you are if you have a loop directive.
// You just have to jump over it and go to reading the headers.
func stateLoop(mr *Reader, _ *Doc) stateFn {
	if !mr.needBlock() {
		return nil
	}
	mr.advance()
	return stateLoopHdr
}

// stateLoopHdr gets the data names after loop_.
func stateLoopHdr(mr *Reader, _ *Doc) stateFn {
	mr.headers = mr.headers[:0]
	for ; mr.Ok && !mr.eof && mr.cur.isTag(); mr.advance() {
		mr.headers = append(mr.headers, mr.cur)
	}
	if !mr.Ok {
		return nil
	}
	if len(mr.headers) < 1 {
		mr.failf("loop_ without data names")
		return nil
	}
	return stateLoopTable
}

// keepTable says if any of the headers were asked for.
func (mr *Reader) keepTable() bool {
	if mr.keepAll() {
		return true
	}
	for _, h := range mr.headers {
		if mr.tablesToKeep[strings.ToLower(h.val)] {
			return true
		}
	}
	return false
}

// stateLoopTable reads values until something that is not a value turns
// up. The values go round the columns in turn.
func stateLoopTable(mr *Reader, _ *Doc) stateFn {
	ncol := len(mr.headers)
	start := mr.headers[0].line
	keep := mr.keepTable()
	var table Table
	if keep {
		table.Names = make([]string, ncol)
		table.Cols = make([][]string, ncol)
		for i, h := range mr.headers {
			lh := strings.ToLower(h.val)
			if mr.blk.hasTag(lh) {
				mr.cur.line = h.line
				mr.failf("data name " + h.val + " already exists in block " + mr.blk.Name)
				return nil
			}
			for _, g := range mr.headers[:i] {
				if strings.EqualFold(g.val, h.val) {
					mr.cur.line = h.line
					mr.failf("data name " + h.val + " repeated in loop")
					return nil
				}
			}
			table.Names[i] = h.val
		}
	}
	count := 0
	for ; mr.Ok && !mr.eof && mr.cur.isValue(); mr.advance() {
		if keep {
			col := count % ncol
			table.Cols[col] = append(table.Cols[col], mr.cur.val)
		}
		count++
	}
	if !mr.Ok {
		return nil
	}
	if count == 0 {
		mr.cur.line = start
		mr.failf("loop_ without values")
		return nil
	}
	if count%ncol != 0 {
		mr.cur.line = start
		mr.failf("number of values in loop is not a multiple of the number of columns")
		return nil
	}
	if keep {
		for _, n := range table.Names {
			mr.blk.loops[strings.ToLower(n)] = &table
		}
		mr.blk.tables = append(mr.blk.tables, &table)
	}
	return stateTop
}

// stateSkipFrame jumps over a save frame. It ends with a bare save_.
func stateSkipFrame(mr *Reader, _ *Doc) stateFn {
	start := mr.cur
	mr.log.Debug("skipping save frame", "frame", start.val, "line", start.line)
	for mr.advance(); mr.Ok && !mr.eof; mr.advance() {
		if mr.cur.isSave() && len(mr.cur.val) == len("save_") {
			mr.advance()
			return stateTop
		}
	}
	if mr.Ok {
		mr.cur.line = start.line
		mr.failf("save frame " + start.val + " not closed")
	}
	return nil
}

// stateSkipGlobal drops everything up to the next data block.
func stateSkipGlobal(mr *Reader, _ *Doc) stateFn {
	mr.log.Debug("skipping reserved word", "word", mr.cur.val, "line", mr.cur.line)
	for mr.advance(); mr.Ok && !mr.eof; mr.advance() {
		if mr.cur.isData() {
			return stateTop
		}
	}
	return stateTop
}

// DoFile takes a reader and actually parses the file.
func (mr *Reader) DoFile() (*Doc, error) {
	if mr == nil {
		return nil, errors.New("start of file, nil cif reader")
	}
	doc := new(Doc)
	mr.advance()
	if !mr.Ok {
		return nil, mr.lErr
	}
	if mr.eof {
		if mr.n == 0 {
			return nil, errors.New("zero length file")
		}
		return doc, nil
	}
	for state := stateTop; state != nil && mr.Ok; {
		state = state(mr, doc)
	}
	if !mr.Ok {
		return nil, mr.lErr
	}
	mr.log.Debug("read cif", "lines", mr.n, "blocks", len(doc.Blocks))
	return doc, nil
}
