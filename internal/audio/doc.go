// Package audio plays the panel sound cues.
//
// A Cue is the opaque handle the panel asks to play once, loop or stop.
// CommandPlayer runs an external player program per cue; NopPlayer only logs.
// Every failure is reported as ErrPlayback so callers can recognize and
// swallow it.
package audio
