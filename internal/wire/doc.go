// Package wire implements the nested text format used to persist a user's
// library, and the projection between that format and library.Library.
//
// The format is a small brace/bracket grammar: objects of quoted keys,
// arrays, quoted strings, and bare tokens (numbers, true, false). Parse
// turns text into a generic Value tree; Marshal writes a tree back out.
// EncodeLibrary and ApplyLibrary map between trees and libraries.
//
// A library blob has four sections, always written in this order:
//
//	{"songs":[{"title":..,"artist":..,"album":..,"playCount":N,"rating":N,"isFavorite":B}],
//	 "albums":[{"title":..,"artist":..,"genre":..,"year":N,"songs":["<title>",..]}],
//	 "playlists":{"<name>":{"name":"<name>","songs":["<title>",..]}},
//	 "recentPlays":["<title>",..]}
//
// Albums, playlists, and recent plays refer to songs by title. On load a
// title resolves to the first song with exactly that title in the songs
// section, so two songs sharing a title are indistinguishable in references.
//
// Loading never stops at the first bad entry. Every problem is recorded as an
// Issue in a Report and everything that parsed is applied.
package wire
