// Package panel implements the notification panel core.
//
// A Panel keeps the notifications pushed by a collaborator in display order,
// counts them per known severity, derives the highest active severity and
// drives the alarm state machine: bell indicator, panel visibility and sound
// cues gated by the session-scoped mute flag.
//
// Panel is single-threaded. Loop owns a Panel on one goroutine and is the only
// entry point other goroutines may use.
package panel
