/*
Package ports defines the driven ports (interfaces) used by the randomart front ends.

The core packages (art, render) never touch storage or the network; the HTTP and MCP
adapters reach those through these interfaces so they can run against memory or Redis.

# Key Interfaces

  - ArtCache: stores encoded PNG bytes keyed by domain.ArtKey.
  - ClientLocker: marks a client as busy while one of its renders is in flight.
*/
package ports
