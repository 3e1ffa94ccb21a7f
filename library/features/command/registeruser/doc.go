// Package registeruser implements the registration of an identity with a unique, case-insensitive username.
package registeruser
