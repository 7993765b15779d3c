// Package viz provides the live terminal view.
//
// The canvas is drawn with braille dots through the same [render.Scene] the
// windowed front-ends use, under a [playback.Controller]:
//
//	Space - Stop (draw trails) / Play
//	S     - Save the trail render as SVG in the working directory
//	Q     - Quit
package viz
