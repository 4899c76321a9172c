// Package catalog reads the public album catalog that users add music from.
//
// A catalog directory holds an index file with one "Album Title,Artist" line
// per album and, for each, a file named "<Album Title>_<Artist>.txt" whose
// first line is "Title,Artist,Genre,Year" followed by one track title per
// line. Scan builds the same structure from a directory of tagged audio
// files, and Write persists it in the flat format.
package catalog
