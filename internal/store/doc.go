// Package store defines the persistence interfaces of the pipeline and the
// shared error taxonomy their implementations map onto.
//
// Interfaces here are storage-agnostic contracts; the concrete sqlite-backed
// implementations live in internal/platform/sqlite. Components other than
// the stores never touch persisted state directly.
package store
