// Package storage defines persistence contracts for generated dungeons.
//
// Records keep the raw cell bytes plus the generation header (size,
// entrance, seed, coverage, passes) so a dungeon can be listed and
// re-rendered without regenerating it. The SQLite implementation lives in
// the sqlite subpackage.
//
// # Error Types
//
//   - ErrNotFound: a requested dungeon is missing.
//   - ErrAlreadyExists: a dungeon with the same id is already stored.
package storage
