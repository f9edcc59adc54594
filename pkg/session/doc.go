/*
Package session implements per-client render jobs for the service front ends.

A client may have one job in flight at a time; a second request while the first is
still rendering fails with domain.ErrBusy. Finished images are kept in an optional
ports.ArtCache, and concurrent requests for the same image are collapsed onto a
single render through a reference-counted lock per cache key.
*/
package session
