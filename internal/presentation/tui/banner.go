package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Picket.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle green gradient, matching the fence motif
	s1 := termenv.String("        _      _        _   ").Foreground(p.Color("#4ade80"))
	s2 := termenv.String("  _ __ (_) ___| | _____| |_ ").Foreground(p.Color("#34d399"))
	s3 := termenv.String(" | '_ \\| |/ __| |/ / _ \\ __|").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String(" | |_) | | (__|   <  __/ |_ ").Foreground(p.Color("#22d3ee"))
	s5 := termenv.String(" | .__/|_|\\___|_|\\_\\___|\\__|").Foreground(p.Color("#38bdf8"))
	s6 := termenv.String(" |_|                        ").Foreground(p.Color("#60a5fa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println(termenv.String(fmt.Sprintf("  widget sync  v%s", version)).Faint())
	fmt.Println()
}
