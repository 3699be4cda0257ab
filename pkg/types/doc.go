// Package types defines the core types and interfaces shared across aitk.
// This includes the FS interface, the link vocabulary (LinkType,
// LinkStrategy, ManagedEntry), the manifest data model (DeclaredItem,
// ExpectedHooks) and the Status values reported for every classified action.
package types
