package shell

import (
	"fmt"

	"apishell/internal/color"
	"apishell/internal/stage"
)

// Prompt decorates every input line with the targeted stage and the access mode.
type Prompt struct {
	Stage     stage.Stage
	ReadWrite bool
}

// Header renders the status line printed above each input prompt: the stage
// name (error-styled for production), a space, and "rw" or "ro".
func (p Prompt) Header() string {
	stageStyle := color.GenericStyle
	if p.Stage.IsProduction() {
		stageStyle = color.ErrorStyle
	}

	mode := color.EmphStyle.Render("ro")
	if p.ReadWrite {
		mode = color.StrongStyle.Render("rw")
	}

	return stageStyle.Render(p.Stage.String()) + " " + mode
}

// Input renders the numbered input prompt.
func (p Prompt) Input(n int) string {
	return fmt.Sprintf("In [%d]: ", n)
}
