// Package viz is the Bubble Tea front-end.
//
// Each TickMsg drains the queued key events into one clock tick, renders the
// result and schedules the next tick for whatever remains of the frame
// budget. Key presses between ticks are only queued, so a burst of keys lands
// on the settings all at once.
//
// # Key Bindings
//
//	q / esc / ctrl+c  - Quit
//	+ / -             - Speed up / slow down
//	[ / ]             - Density down / up
//	1-5, 0            - Palettes
//	a e y s o m       - Rune sets
//	Arrows            - Scroll direction
//	i                 - Toggle status line
package viz
