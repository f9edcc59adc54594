/*
Package domain contains the core value types and errors shared by every randomart package.

It is kept pure and free of I/O so that the generator, the renderer and every adapter can agree
on the same vocabulary without importing each other.

# Key Entities

  - Color: an (r, g, b) triple nominally in [-1, 1], produced by evaluating an art tree.
  - ComplexityPlan: the list of complexities requested for a phrase (explicit, derived or the full ladder).
  - LifecycleHooks: observability callbacks fired around generation and rendering.
  - ParseError: the positional error returned when art text cannot be parsed.
*/
package domain
