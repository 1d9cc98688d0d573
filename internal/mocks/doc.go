// Package mocks provides test doubles for the application's interfaces.
// The in-memory item store implements the full store contract (validation,
// price derivation, compatibility re-check, id assignment, ordering) so
// handler tests exercise realistic behavior without a database.
package mocks
