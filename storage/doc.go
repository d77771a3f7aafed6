// Package storage defines the persistence contracts for user preferences:
// profiles, search history and the applied-action log.
//
// Records are encoded with mus (see core/records_mus.gen.go). The badger
// subpackage provides the BadgerDB implementation, including an in-memory
// variant for tests.
package storage
