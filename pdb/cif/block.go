package cif

import (
	"fmt"
	"strings"
)

// Doc is everything we kept from one file.
type Doc struct {
	Blocks []*Block
}

// Block is one data block. Items and loops are looked up by data name,
// ignoring case.
type Block struct {
	Name   string
	items  map[string]item
	order  []string // lower case names of items, in file order
	loops  map[string]*Table
	tables []*Table
}

type item struct {
	tag string // as written in the file
	val string
}

// Table holds one loop_. Cols[i] is the column for Names[i].
type Table struct {
	Names []string
	Cols  [][]string
}

func newBlock(name string) *Block {
	return &Block{
		Name:  name,
		items: make(map[string]item),
		loops: make(map[string]*Table),
	}
}

// NRow is the number of rows in the table.
func (t *Table) NRow() int {
	if len(t.Cols) == 0 {
		return 0
	}
	return len(t.Cols[0])
}

// Col returns the column for a data name, or nil.
func (t *Table) Col(tag string) []string {
	for i, n := range t.Names {
		if strings.EqualFold(n, tag) {
			return t.Cols[i]
		}
	}
	return nil
}

// SoleBlock returns the only data block in the file. Zero or more than
// one block is an error.
func (d *Doc) SoleBlock() (*Block, error) {
	switch len(d.Blocks) {
	case 0:
		return nil, ErrNoBlock
	case 1:
		return d.Blocks[0], nil
	}
	return nil, fmt.Errorf("%w: found %d", ErrManyBlocks, len(d.Blocks))
}

// Block returns the data block with the given name (without the data_
// prefix), ignoring case.
func (d *Doc) Block(name string) (*Block, bool) {
	for _, b := range d.Blocks {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return nil, false
}

// hasTag says if a name is already used by an item or a loop.
func (b *Block) hasTag(ltag string) bool {
	_, iok := b.items[ltag]
	_, lok := b.loops[ltag]
	return iok || lok
}

// FindPair returns the data name, as written in the file, and its value.
// Names inside loops are not items, so they are not found here.
func (b *Block) FindPair(tag string) (string, string, bool) {
	it, ok := b.items[strings.ToLower(tag)]
	if !ok {
		return "", "", false
	}
	return it.tag, it.val, true
}

// FindValue returns the value of a single data item.
func (b *Block) FindValue(tag string) (string, bool) {
	it, ok := b.items[strings.ToLower(tag)]
	return it.val, ok
}

// FindLoop returns the column of a loop for the data name, or nil if no
// loop in the block has this name.
func (b *Block) FindLoop(tag string) []string {
	t, ok := b.loops[strings.ToLower(tag)]
	if !ok {
		return nil
	}
	return t.Col(tag)
}

// FindTable returns the whole loop that contains a data name.
func (b *Block) FindTable(tag string) (*Table, bool) {
	t, ok := b.loops[strings.ToLower(tag)]
	return t, ok
}

// Tags gives the names of the single data items in file order.
func (b *Block) Tags() []string {
	ret := make([]string, len(b.order))
	for i, k := range b.order {
		ret[i] = b.items[k].tag
	}
	return ret
}

// Tables gives the loops in file order.
func (b *Block) Tables() []*Table { return b.tables }
