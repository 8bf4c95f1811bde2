// Package ui provides terminal styling and output helpers for envctl.
package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is attached to a TTY.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor reports whether table and status output should carry ANSI
// styling. CLICOLOR_FORCE wins outright; otherwise NO_COLOR/CLICOLOR=0 turn
// color off, and absent either, a TTY on stdout turns it on.
func ShouldUseColor() bool {
	if os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return IsTerminal()
}

// GetWidth returns stdout's terminal width, or 80 if it can't be
// determined (piped output, non-TTY stdout).
func GetWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
