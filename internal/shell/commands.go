package shell

import (
	"fmt"
	"strings"

	"apishell/internal/color"
	"apishell/internal/config"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"
)

// For mocking in tests
var clipboardWriteAll = clipboard.WriteAll

// executeCommand runs a built-in command. handled is false when head is not a command.
func (r *REPL) executeCommand(head, rest string) (handled bool, err error) {
	switch strings.ToLower(head) {
	case "help", "?":
		r.showHelp()
		return true, nil

	case "whos":
		r.showBindings()
		return true, nil

	case "dir":
		if rest == "" {
			return true, fmt.Errorf("usage: dir <binding>")
		}
		binding, ok := r.ns.Lookup(rest)
		if !ok {
			return true, fmt.Errorf("name '%s' is not defined", rest)
		}
		r.showMembers(binding)
		return true, nil

	case "format":
		return true, r.handleFormat(rest)

	case "copy":
		return true, r.handleCopy()

	case "exit", "quit":
		return true, errExit

	default:
		return false, nil
	}
}

// showHelp displays available commands
func (r *REPL) showHelp() {
	fmt.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out, "  help, ?                      - Show this help message")
	fmt.Fprintln(r.out, "  whos                         - List bound clients")
	fmt.Fprintln(r.out, "  dir <binding>                - List the members of a binding")
	fmt.Fprintln(r.out, "  <binding>                    - Describe a binding")
	fmt.Fprintln(r.out, "  <binding>.<member> [args...] - Call a member")
	fmt.Fprintln(r.out, "  format <json|yaml>           - Change how results are printed")
	fmt.Fprintln(r.out, "  copy                         - Copy the last result to the clipboard")
	fmt.Fprintln(r.out, "  exit, quit                   - Exit the shell")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Arguments are separated by spaces. Bare words are strings; JSON")
	fmt.Fprintln(r.out, "objects, arrays, strings and numbers are decoded to the member's types.")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Keyboard shortcuts:")
	fmt.Fprintln(r.out, "  TAB                          - Auto-complete commands and members")
	fmt.Fprintln(r.out, "  ↑/↓ (arrow keys)             - Navigate command history")
	fmt.Fprintln(r.out, "  Ctrl+R                       - Search command history")
	fmt.Fprintln(r.out, "  Ctrl+C                       - Cancel current line")
	fmt.Fprintln(r.out, "  Ctrl+D                       - Exit the shell")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Examples:")
	fmt.Fprintln(r.out, "  data.get_supplier 712345")
	fmt.Fprintln(r.out, "  data.find_services {\"lot\": \"cloud-hosting\"}")
	fmt.Fprintln(r.out, "  search.search g-cloud-13 services {\"q\": \"email\"}")
	fmt.Fprintln(r.out, "  cdp.get_supplier_information ABC123")
}

// showBindings lists the namespace, one binding per line.
func (r *REPL) showBindings() {
	if r.ns.Len() == 0 {
		fmt.Fprintln(r.out, "No clients bound.")
		return
	}

	width := 0
	for _, name := range r.ns.Names() {
		width = max(width, runewidth.StringWidth(name))
	}
	for _, b := range r.ns.Bindings() {
		access := "rw"
		if b.ReadOnly {
			access = "ro"
		}
		fmt.Fprintf(r.out, "%s  %s %s\n", runewidth.FillRight(b.Name, width), color.MutedStyle.Render(b.TypeName()), access)
	}
}

// showMembers lists the members a binding exposes.
func (r *REPL) showMembers(b Binding) {
	members := Members(b)
	width := 0
	for _, m := range members {
		width = max(width, runewidth.StringWidth(m.Name))
	}
	for _, m := range members {
		args := strings.TrimPrefix(m.Signature(), m.Name)
		fmt.Fprintf(r.out, "%s%s\n", runewidth.FillRight(m.Name, width), color.MutedStyle.Render(args))
	}
}

type baseURLer interface {
	GetBaseURL() string
}

// describe prints the type, base URL and access mode of a binding.
func (r *REPL) describe(b Binding) error {
	access := "read-write"
	if b.ReadOnly {
		access = "read-only"
	}
	fmt.Fprintf(r.out, "%s (%s)\n", b.TypeName(), access)
	if u, ok := b.Value.(baseURLer); ok {
		fmt.Fprintf(r.out, "  base URL: %s\n", u.GetBaseURL())
	}
	fmt.Fprintf(r.out, "  %d member(s); 'dir %s' lists them\n", len(Members(b)), b.Name)
	return nil
}

func (r *REPL) handleFormat(setting string) error {
	switch strings.ToLower(setting) {
	case "":
		fmt.Fprintf(r.out, "Output format: %s\n", r.format)
	case config.OutputFormatJSON, config.OutputFormatYAML:
		r.format = strings.ToLower(setting)
		fmt.Fprintf(r.out, "Output format set to %s\n", r.format)
	default:
		return fmt.Errorf("invalid format: %s. Use '%s' or '%s'", setting, config.OutputFormatJSON, config.OutputFormatYAML)
	}
	return nil
}

func (r *REPL) handleCopy() error {
	if r.last == "" {
		return fmt.Errorf("nothing to copy yet")
	}
	if err := clipboardWriteAll(r.last); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Fprintln(r.out, color.SuccessStyle.Render("Copied last result to clipboard"))
	return nil
}
