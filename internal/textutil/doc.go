// Package textutil provides the text comparison helpers shared by library and
// catalog searches.
//
// Comparisons use Unicode case folding from golang.org/x/text rather than
// strings.ToLower so that titles such as "Straße" and "STRASSE" match.
package textutil
