// Package userstore persists user accounts and their serialized libraries.
//
// Two backends implement Store. FileStore keeps every user in one document,
// guarded by an advisory lock file and replaced atomically on each write.
// SQLiteStore keeps one row per user. Both treat the library payload as
// opaque wire text; decoding it is the account layer's job.
package userstore
