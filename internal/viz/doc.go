// Package viz is the terminal front end of the demon game.
//
// It draws the playfield on a Braille [Canvas] and drives a [demon.Game]
// from a Bubble Tea [Model], running several physics substeps per frame.
//
// # Key Bindings
//
//	Up/K   - Raise the gate
//	Down/J - Lower the gate
//	Space  - Pause/Resume
//	R      - New round
//	A      - Toggle the autopilot demon
//	T      - Cycle color themes
//	?      - Show help overlay
//	Esc    - End the round, or quit once it has ended
//	Q      - Quit
package viz
