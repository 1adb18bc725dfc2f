// Package analysis looks at stored runs after the fact.
//
//   - [Swing]: dominant swing frequency and amplitude of the card
//   - [CardPhase]: position against velocity of the card along one axis
//   - [PhasePortraitToCanvas]: braille plot of a phase portrait
//
// The card on a three-link chain is not a simple pendulum, but once it
// settles the lowest mode dominates and its period is a useful check on
// rope length and damping:
//
//	r, err := analysis.Swing(samples, dt, analysis.AxisX)
//	if err == nil {
//	    fmt.Printf("period %.2fs\n", r.Period)
//	}
package analysis
