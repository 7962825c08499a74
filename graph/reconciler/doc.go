// Package reconciler applies a desired resource graph against the state
// recorded from previous runs.
//
// A reconciliation walks the desired graph in dependency order and compares
// every resource to the stored resources for the project, using the input
// hash recorded on the last apply:
//
//   - A matching hash means the resource is up to date. It is not touched,
//     and its stored outputs feed the resources that depend on it.
//
//   - A stored resource with the same type and name but another hash is
//     updated in place, keeping its id.
//
//   - A resource with no stored counterpart is created and assigned a new
//     id.
//
// Stored resources that no desired resource matched are deleted last,
// children before parents. New state is thus always in place before anything
// is removed, and a parent is never removed while a resource created from
// its outputs still exists.
//
// Independent branches of the graph are processed concurrently. A resource
// waits for the resources it depends on:
//
//     A --> C      A and B run concurrently; C runs when both are done.
//     B -/
//
// Deletes run one at a time.
//
// Operations are not retried. An error from any operation stops the
// reconciliation, and resources that were applied before the error remain
// stored.
package reconciler
