// Package scheduling is the clerkship assignment engine: the per-run context,
// capacity resolution, constraint evaluation, team validation, tiered fallback
// resolution and the gap-filling pass. It performs no I/O and is not safe for
// concurrent use; a Context belongs to exactly one run.
package scheduling
