// Package testutil provides helpers for tests that work on a real
// filesystem: declarative file trees, link checks and whole-tree snapshots
// for asserting that a run changed nothing.
//
// In-memory tests use filesystem.NewAferoFS(afero.NewMemMapFs()) directly.
package testutil
