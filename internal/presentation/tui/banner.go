package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the chazz banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []termenv.Style{
		termenv.String("        _                   ").Foreground(p.Color("#818cf8")),
		termenv.String("   ___ | |__   __ _ ________").Foreground(p.Color("#a78bfa")),
		termenv.String("  / __|| '_ \\ / _` |_  /_  /").Foreground(p.Color("#c084fc")),
		termenv.String(" | (__ | | | | (_| |/ / / / ").Foreground(p.Color("#e879f9")),
		termenv.String("  \\___||_| |_|\\__,_/___/___|").Foreground(p.Color("#f472b6")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, termenv.String("  version "+version).Faint())
	fmt.Fprintln(w)
}

// PrintSystemMessage prints a standardized system message to w.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
