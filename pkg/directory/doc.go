// Package directory defines the contracts the core needs from the
// durable store that owns users, groups, memberships, and federated
// identity links, plus a MongoDB reference implementation.
//
// The core never talks to the database directly: role resolution reads
// memberships through MembershipStore, federated login maps external
// identities through UserStore, and the hierarchy snapshot is built
// from GroupStore. The in-memory implementation backs tests.
package directory
