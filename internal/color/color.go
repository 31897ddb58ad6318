package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	GenericStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FAFD7"})

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}).
			Bold(true)

	StrongStyle = lipgloss.NewStyle().Bold(true)

	EmphStyle = lipgloss.NewStyle().Italic(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#767676", Dark: "#8A8A8A"})

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"})
)

// Initialize tells lipgloss which background the adaptive colors target.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// Enable switches styled output on or off globally.
func Enable(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ShouldColorize reports whether styled output should be written to f.
func ShouldColorize(f *os.File, getenv func(string) string) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
