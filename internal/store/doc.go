// Package store persists the task collection for a project.
//
// The store is a hidden .gitdo directory at the project root holding a
// single tasks.json file:
//
//	[
//	  {
//	    "id": "5f3e9c2a-8c6f-4b8e-9a5e-1c2d3e4f5a6b",
//	    "title": "Task title",
//	    "status": "pending",
//	    "created_at": "2024-01-01T00:00:00Z",
//	    "completed_at": null
//	  }
//	]
//
// Array order is insertion order and is the full persisted state.
//
// # Discovery
//
// When no explicit base directory is given, Discover walks upward from the
// working directory to the filesystem root looking for a .gitdo directory,
// so commands work from anywhere inside a project. Init never discovers: it
// always acts on the directory it is given, allowing nested projects.
//
// # Validation
//
// Load validates the raw file against an embedded JSON Schema (required
// fields, status enum, date-time formats), falling back to minimal
// structural checks if schema compilation is unavailable. Failures wrap
// ErrCorrupt.
//
// # Concurrency
//
// There is no locking. Every operation is an independent load, mutate,
// save cycle over the whole file; concurrent writers race and the last
// save wins.
package store
