// Package hierarchy answers ancestor and descendant queries over the
// organizational group tree.
//
// Groups form a forest. Each group carries a materialized path, the
// ordered list of its ancestors root-first ending with the group
// itself, so ancestry checks are a prefix comparison instead of a tree
// walk. A Resolver is an immutable snapshot; re-parenting produces a
// new snapshot with every descendant path recomputed, and the Tree
// holder swaps snapshots atomically so no query ever observes a
// half-updated path set.
package hierarchy
