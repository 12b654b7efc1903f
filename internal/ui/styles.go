package ui

import (
	"fmt"
	"strconv"
)

// ANSI256 color codes.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
	colorGood   = 114 // green
	colorWarn   = 179 // amber
	colorBad    = 167 // red
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color. Used for IDs and headings.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderGood returns s in green.
func RenderGood(s string) string { return paint(colorGood, s) }

// RenderWarn returns s in amber.
func RenderWarn(s string) string { return paint(colorWarn, s) }

// RenderBad returns s in red.
func RenderBad(s string) string { return paint(colorBad, s) }

// RenderScore colors a 0-100 score: >=70 green, >=40 amber, otherwise red.
// Scores that were never reported render as a muted dash.
func RenderScore(v int, valid bool) string {
	if !valid {
		return RenderMuted("-")
	}
	s := strconv.Itoa(v)
	switch {
	case v >= 70:
		return RenderGood(s)
	case v >= 40:
		return RenderWarn(s)
	default:
		return RenderBad(s)
	}
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// Setup disables color when ShouldUseColor says stdout cannot take it.
func Setup() {
	if !ShouldUseColor() {
		ForceNoColor()
	}
}
