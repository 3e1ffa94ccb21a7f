// Package shell is the imperative shell around the lending core.
//
// It translates between domain events and storable events, builds event metadata, runs the
// query -> decide -> append cycle with retry on concurrency conflicts and defines the contracts
// and observability vocabulary shared by all command and query slices.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
