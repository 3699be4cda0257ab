// Package linker creates, removes and inspects the links that expose toolkit
// items inside the user's configuration directory.
//
// Three mechanisms exist: native symlinks, directory junctions and hard
// links. DetectStrategy probes the platform once per run and the resulting
// types.LinkStrategy picks the mechanism for every item. Junctions are only
// available on windows; other platforms report ErrUnsupported for them.
package linker
