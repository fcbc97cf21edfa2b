package tui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// PrintBanner outputs an ASCII art banner for Canvas. It is skipped when
// stdout is not a terminal so piped output stays clean.
func PrintBanner(version string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Indigo/Violet)
	s1 := termenv.String("   _____                          ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("  / ____|                         ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | |     __ _ _ ____   ____ _ ___ ").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" | |    / _` | '_ \\ \\ / / _` / __|").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" | |___| (_| | | | \\ V / (_| \\__ \\").Foreground(p.Color("#f472b6"))
	s6 := termenv.String("  \\_____\\__,_|_| |_|\\_/ \\__,_|___/").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
	fmt.Println(termenv.String("  canvas " + version).Foreground(p.Color("#94a3b8")))
	fmt.Println()
}
