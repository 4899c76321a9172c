// Package main hosts the tunelib CLI entrypoint and command graph.
//
// Each invocation loads configuration once, authenticates the user named by
// --user, loads their library from the configured store, runs one command,
// and saves the library back when the command changed it. Catalog commands
// read the album catalog and need no account.
package main
