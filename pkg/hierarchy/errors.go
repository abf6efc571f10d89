package hierarchy

import "errors"

var (
	// ErrGroupNotFound is returned when a group identifier is unknown
	// to the snapshot.
	ErrGroupNotFound = errors.New("hierarchy.group_not_found")

	// ErrUnknownParent is returned when a group references a parent
	// that is not part of the snapshot.
	ErrUnknownParent = errors.New("hierarchy.unknown_parent")

	// ErrCycleDetected is returned when the parent graph is not a forest.
	ErrCycleDetected = errors.New("hierarchy.cycle_detected")

	// ErrReparentIntoSubtree is returned when a re-parenting operation
	// would place a group under one of its own descendants.
	ErrReparentIntoSubtree = errors.New("hierarchy.reparent_into_subtree")
)
