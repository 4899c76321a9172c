// Package account binds a username and salted password hash to a music
// library and converts users to and from store records.
//
// Passwords are hashed as lowercase hex SHA-256 of password+salt with a
// 16-byte base64 salt, matching users files written by earlier releases.
package account
