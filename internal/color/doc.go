// Package color provides terminal color detection and the styles apishell
// uses for its prompt and messages.
//
// # Core Functionality
//
// The package provides:
//   - Dark and light background support for adaptive colors
//   - Plain output when stdout is not a terminal or NO_COLOR is set
//   - Semantic styles shared by the shell
//
// # Styles
//
// Styles mirror the token classes of a classic interactive prompt:
//   - GenericStyle: ordinary stage names
//   - ErrorStyle: the production stage and evaluation errors
//   - StrongStyle: the "rw" marker
//   - EmphStyle: the "ro" marker
//   - MutedStyle: de-emphasized text such as type names
//   - SuccessStyle: confirmations
//
// # Usage Example
//
//	color.Initialize(lipgloss.HasDarkBackground())
//	color.Enable(color.ShouldColorize(os.Stdout, os.Getenv))
//
//	fmt.Println(color.ErrorStyle.Render("production"))
//
// # Environment Variables
//
// Respected environment variables:
//   - NO_COLOR: Disable all color output
package color
