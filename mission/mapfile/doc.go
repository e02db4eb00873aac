// Package mapfile loads rescue grids from plain-text map files.
//
// A map file is a UTF-8 text file where each line is one grid row: 'X' is a
// wall, '.' is free floor, 'E' is the entry cell and '@' is the victim.
// Every row must have the same width, the entry must sit on the outer
// border, and the file must contain exactly one entry and exactly one
// victim. Trailing blank lines are ignored.
//
// The Manager caches parsed maps from a directory the way mission services
// expect to consume them, keyed by file name without the .txt extension.
package mapfile
