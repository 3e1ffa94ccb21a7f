// Package identity registers, authenticates and verifies the users of the library.
//
// Passwords are stored as bcrypt hashes in the user registry, sessions are HS256 signed JWTs.
// A verified token is always checked against the registry, so removed users lose access immediately
// and the role comes from the registry, never from the caller.
package identity
