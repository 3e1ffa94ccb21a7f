// Package finduser implements the lookup of one identity by id or by username.
// Authentication uses it to load the password hash, token verification to confirm the user still exists.
package finduser
