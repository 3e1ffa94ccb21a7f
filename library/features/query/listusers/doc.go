// Package listusers implements the listing of registered identities for administrators.
package listusers
