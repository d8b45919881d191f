// Package cache provides the process-local cache that fronts card reads.
//
// Entries use sliding expiration and are grouped by namespace (see
// DefaultNamespace) so that all keys of one user can be invalidated with
// RemoveByPrefix. There is no cross-process coherence.
package cache
