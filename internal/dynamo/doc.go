// Package dynamo provides the shared vocabulary of the lanyard simulation.
//
// The package defines the per-tick output and the observation interfaces used
// by the runner, the metrics and the renderers:
//
//   - [Frame]: everything a renderer needs for one tick (ribbon, bodies, cursor)
//   - [Metric]: accumulates a scalar over a run
//   - [Observer]: receives every frame
//   - [Config] and [Result]: headless run parameters and output
//
// # Example
//
//	scene, _ := lanyard.New(profile, vp)
//	runner := sim.New(scene)
//	runner.AddMetric(metrics.NewRopeStretch())
//	result, _ := runner.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Frames are produced on the tick goroutine. Observers must copy what they
// keep; the ribbon slice is reused between ticks.
package dynamo
