// Package dueloans implements the read model of the overdue sweep: active loans whose due date has passed.
package dueloans
