// Package removeuser implements the removal of an identity by an administrator.
package removeuser
