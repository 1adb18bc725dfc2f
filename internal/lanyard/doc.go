// Package lanyard builds the lanyard chain and runs its per-tick pipeline.
//
// A Scene owns a fixed anchor, three rope-linked joint bodies and a card hung
// from the last joint by a spherical joint. Each call to Tick applies queued
// pointer events, pushes the drag target, steps the physics world, eases the
// joint positions, samples the ribbon curve and damps the card's yaw spin, in
// that order, then returns a Frame for renderers and observers.
//
// Scenes are not safe for concurrent use. Pointer events may be pushed from
// any goroutine through Push; they take effect on the next Tick.
package lanyard
