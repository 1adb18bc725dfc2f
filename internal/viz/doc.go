// Package viz draws a lanyard scene in the terminal.
//
// The live view runs on Bubble Tea:
//
//   - [Model]: steps a scene once per frame and forwards mouse drags to it
//   - [Canvas]: braille dot grid the band and card are projected onto
//   - [Renderer]: projects a frame through the scene camera
//   - [Recorder]: captures canvas frames as an animated GIF
//
// # Key Bindings
//
//	Mouse  - Drag the card
//	Arrows - Move the keyboard pointer
//	Enter  - Grab or release with the keyboard pointer
//	Space  - Pause/Resume
//	R      - Rebuild the scene
//	T      - Cycle themes
//	G      - Toggle GIF recording
//	?      - Show help
package viz
