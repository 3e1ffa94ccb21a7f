// Command lendingd runs the library lending HTTP API and the overdue scanner.
//
// Usage:
//
//	lendingd -config /etc/lendingd/config.yaml
//
// Every setting can be overridden with LENDING_* environment variables, see package config.
package main
