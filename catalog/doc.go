// Package catalog holds the static set of Windows settings the resolver
// searches.
//
// A catalog is read-only at query time. It is served as an immutable
// Snapshot, built from the YAML document embedded in the module (Builtin),
// from a YAML file on disk (FileSource, with optional live reload), or from
// a SQLite store (package catalog/sqlite). Retrying wraps any catalog whose
// backing store may be briefly unreachable.
package catalog
