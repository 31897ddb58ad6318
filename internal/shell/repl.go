package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"apishell/internal/color"
	"apishell/internal/config"
	"apishell/pkg/logging"

	"github.com/chzyer/readline"
)

// errExit is returned by commands that end the session.
var errExit = errors.New("exit")

// Options configure a REPL.
type Options struct {
	HistoryFile  string
	OutputFormat string
	// Output receives results; defaults to os.Stdout.
	Output io.Writer
}

// REPL is the interactive shell over a namespace of API clients.
type REPL struct {
	ns     *Namespace
	prompt Prompt
	opts   Options
	out    io.Writer
	rl     *readline.Instance

	// interruptContext derives the context of one evaluation. Outside
	// Readline the terminal is cooked, so Ctrl-C arrives as SIGINT.
	interruptContext func(context.Context) (context.Context, context.CancelFunc)

	format string
	last   string
	count  int
}

// NewREPL creates a new REPL instance. The namespace is not modified.
func NewREPL(ns *Namespace, prompt Prompt, opts Options) *REPL {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := opts.OutputFormat
	if format == "" {
		format = config.OutputFormatJSON
	}
	r := &REPL{
		ns:     ns,
		prompt: prompt,
		opts:   opts,
		out:    out,
		format: format,
		count:  1,
	}
	r.interruptContext = interruptOnSignal
	return r
}

func interruptOnSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// Run starts the REPL and returns when the user exits or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	if dir := filepath.Dir(r.opts.HistoryFile); r.opts.HistoryFile != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Warn("shell", "history will not be saved: cannot create %s: %v", dir, err)
		}
	}

	rlConfig := &readline.Config{
		Prompt:          r.prompt.Input(r.count),
		HistoryFile:     r.opts.HistoryFile,
		AutoComplete:    NewCompleter(r.ns),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold: true,
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	r.rl = rl
	r.out = rl.Stdout()

	// Unblock Readline when the command context is cancelled (SIGTERM).
	stop := context.AfterFunc(ctx, func() { rl.Close() })
	defer stop()

	logging.Debug("shell", "REPL started with %d binding(s), history at %s", r.ns.Len(), r.opts.HistoryFile)
	fmt.Fprintln(r.out, "Type 'help' for available commands. Use TAB for completion.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprintln(r.out, r.prompt.Header())
		rl.SetPrompt(r.prompt.Input(r.count))

		line, err := rl.Readline()
		if ctx.Err() != nil {
			return nil
		}
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if r.evalLine(ctx, line) {
			return nil
		}
	}
}

// evalLine evaluates one line under its own interruptible context and
// reports whether the shell should exit. Errors are printed, not returned.
func (r *REPL) evalLine(ctx context.Context, line string) (exit bool) {
	evalCtx, stop := r.interruptContext(ctx)
	defer stop()

	err := r.Eval(evalCtx, line)
	switch {
	case err == nil:
	case errors.Is(err, errExit):
		return true
	case evalCtx.Err() != nil && ctx.Err() == nil:
		// Ctrl-C during a call abandons the call, not the shell.
		fmt.Fprintln(r.out, color.ErrorStyle.Render("Interrupted"))
	default:
		fmt.Fprintln(r.out, color.ErrorStyle.Render(err.Error()))
	}
	fmt.Fprintln(r.out)
	return false
}

// Eval evaluates one input line: a built-in command, a binding name, or a
// binding.member call. It returns errExit when the line ends the session.
func (r *REPL) Eval(ctx context.Context, line string) error {
	input := strings.TrimSpace(line)
	if input == "" {
		return nil
	}
	defer func() { r.count++ }()

	head, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	if handled, err := r.executeCommand(head, rest); handled {
		return err
	}

	name, member, isCall := strings.Cut(head, ".")
	binding, ok := r.ns.Lookup(name)
	if !ok {
		return fmt.Errorf("name '%s' is not defined. Type 'help' for available commands", name)
	}

	if !isCall {
		if rest != "" {
			return fmt.Errorf("'%s' is not callable; use %s.<member>", name, name)
		}
		return r.describe(binding)
	}

	m, err := LookupMember(binding, member)
	if err != nil {
		return err
	}

	logging.Debug("shell", "calling %s.%s", binding.Name, m.GoName)
	result, err := Call(ctx, m, rest)
	if err != nil {
		return err
	}
	return r.show(result)
}

func (r *REPL) show(result any) error {
	text, err := Render(result, r.format)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	r.last = text
	fmt.Fprintf(r.out, "%s %s\n", color.MutedStyle.Render(fmt.Sprintf("Out[%d]:", r.count)), text)
	return nil
}
