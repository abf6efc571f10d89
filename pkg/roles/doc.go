// Package roles computes the effective role a user holds toward a
// target group.
//
// Roles form a closed ordered set. A membership grants its role on the
// membership's group and, through inheritance, on every descendant of
// that group. The effective role toward a target is the highest-ranked
// role among all memberships held on the target or any of its
// ancestors; ranking is strictly by role order, a higher role on a
// distant ancestor beats a lower role on the immediate parent.
package roles
