// Package cif reads small molecule crystallographic information files
// (core CIF 1.1) and gives access to the data items and loops of each
// data block.
//
// Compared to macromolecular files, these files are small, so we keep
// everything unless told otherwise. If one only wants a few items, call
// AddItems and AddTable before DoFile and the rest is dropped while
// reading.
//
// Notes on the format, from
// https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
//  - Data names start with "_" and are case insensitive. We store them as
//    written, but look them up in lower case.
//  - Reserved words (data_, loop_, save_, global_, stop_) are also case
//    insensitive. A quoted "loop_" is just a value.
//  - A quote only closes a value if it is followed by white space, so
//    'O'Brien' is one value.
//  - A line starting with ";" opens a text field which runs until the next
//    line starting with ";". We keep the newlines.
//  - A question mark, ?, means a missing value.
//    A dot, ., means not appropriate or deliberately left out.
//    Both are returned as they are.
//
// Save frames only appear in dictionaries. We jump over them.
package cif
