// Package app wires the netalloc command tree: one cobra command per
// allocation strategy, the feedback loop, the batch harnesses and the
// scenario generator, sharing flag surfaces through small option structs.
package app
