// Package container implements the shortcut container: a per-module,
// bidirectional mapping between in-module action IDs and key sequences with
// conflict detection and merge semantics.
//
// # Interference
//
// Shortcuts of the root module interfere with the shortcuts of every other
// module; two non-root modules never interfere with each other. A conflict
// check for module M is therefore evaluated against {root, M}, and a check
// for the root module against every module.
//
// # Disabled Entries
//
// An empty key sequence is a valid value: it marks an action whose shortcut
// is disabled. A disabled entry is still reported by HasShortcut, which
// distinguishes it from an action the container knows nothing about.
//
// # Invalid Input
//
// Invalid module or action IDs never produce errors. Operations degrade to
// no-ops returning empty results, and the attempt is logged at debug level.
//
// The container performs no I/O and holds no global state. It is not safe
// for concurrent use.
package container
