// Package errors defines the engine's error taxonomy.
//
// Data load failures are fatal to startup. Entry lookups that miss report
// ENTRY_NOT_FOUND and indicate an authoring bug. Character builder problems
// are reported as *ValidationError and never leave the builder. Save and
// load failures are PERSISTENCE errors and must not touch in-memory state.
package errors
