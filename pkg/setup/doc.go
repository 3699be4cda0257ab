// Package setup is the safety-gated engine behind aitk install, uninstall
// and detach.
//
// Every declared target is classified before anything is touched, and the
// only things ever removed or replaced are links into the toolkit root and
// targets the ledger records as ours. Anything else found at a target path
// belongs to the user and is reported as LOCAL or SKIP.
//
// Each item is handled on its own. A run interrupted between two items
// leaves a state the next run picks up from, since every decision is made
// again from the live filesystem and the ledger.
package setup
