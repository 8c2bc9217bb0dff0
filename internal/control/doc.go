// Package control provides gate policies that play the demon automatically.
//
// A [Policy] looks at a running [demon.Game] and decides whether to move
// the gate:
//
//   - [Greedy]: steers the opening to meet the next ball about to cross
//     the divider towards its own side
//   - [None]: never moves the gate
//
// # Usage
//
//	ap := control.NewAutopilot(game, control.NewGreedy(), 20)
//	sim.AddObserver(ap)
//	// the policy is consulted every 20 steps
package control
