// Package logs reads back the tunelib log file.
//
// Tail returns the newest lines, optionally only those tagged with one
// session id, and Follow polls the file for lines appended after an offset.
package logs
