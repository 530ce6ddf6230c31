// Package crystal pulls metadata out of a parsed cif data block: the
// chemical formula, the unit cell and the table of atomic sites.
//
// It does not parse cif itself. Anything that can look up single values
// and loop columns by data name is a Block. *cif.Block from pdb/cif is
// the usual one.
//
// Nothing here changes the block or keeps state between calls, so the
// functions can be used from several goroutines on the same block.
package crystal

// Block is what we need from a parsed data block. Data names are
// compared without regard to case.
type Block interface {
	// FindPair returns a single data item, the name as written and its
	// value. ok is false if there is no such item.
	FindPair(tag string) (key, val string, ok bool)
	// FindValue returns the value of a single data item.
	FindValue(tag string) (val string, ok bool)
	// FindLoop returns a loop column, or an empty slice if the data name
	// is not in a loop.
	FindLoop(tag string) []string
}
