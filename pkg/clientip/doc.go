// Package clientip extracts the originating client address from a
// request, looking through the usual reverse-proxy headers before
// falling back to the socket peer. The address keys anonymous rate
// limiting, so a value is always returned, never an error.
package clientip
