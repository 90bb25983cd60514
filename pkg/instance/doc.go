// Package instance defines the packing problem: a board of fixed width and a
// list of rectangular modules to place on it.
//
// Instances are read from a plain text format:
//
//	8        board width
//	2        number of modules
//	4 4      width and height of module 0
//	4 4      width and height of module 1
//
// Fields on a line are separated by whitespace and blank lines are ignored.
// Every dimension must be a positive integer and the number of module lines
// must equal the declared count; any other input yields a PARSE_ERROR.
//
// An [Instance] is immutable once loaded. Modules are identified by their
// index in [Instance.Modules], which is the order of the input file.
package instance
