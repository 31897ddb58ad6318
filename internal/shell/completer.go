package shell

import (
	"sort"
	"strings"
)

// builtinCommands are the shell commands offered by completion.
var builtinCommands = []string{"help", "whos", "dir", "format", "copy", "exit", "quit"}

// Completer completes commands, binding names and binding.member expressions.
// It implements readline.AutoCompleter.
type Completer struct {
	ns *Namespace
}

// NewCompleter creates a completer over ns.
func NewCompleter(ns *Namespace) *Completer {
	return &Completer{ns: ns}
}

// Candidates returns every completion that starts with word.
func (c *Completer) Candidates(word string, firstWord bool) []string {
	var all []string
	if firstWord {
		all = append(all, builtinCommands...)
	}
	for _, b := range c.ns.Bindings() {
		all = append(all, b.Name)
		for _, m := range Members(b) {
			all = append(all, b.Name+"."+m.Name)
		}
	}

	var matches []string
	for _, candidate := range all {
		if strings.HasPrefix(candidate, word) {
			matches = append(matches, candidate)
		}
	}
	sort.Strings(matches)
	return matches
}

// Do implements readline.AutoCompleter. It returns the suffixes that
// complete the word under the cursor and the length of that word.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	before := string(line[:pos])
	start := strings.LastIndexAny(before, " \t") + 1
	word := before[start:]
	firstWord := strings.TrimSpace(before[:start]) == ""
	if !firstWord {
		// "dir <binding>" completes binding names only.
		fields := strings.Fields(before[:start])
		if len(fields) != 1 || fields[0] != "dir" {
			return nil, 0
		}
	}

	var suffixes [][]rune
	for _, candidate := range c.Candidates(word, firstWord) {
		if !firstWord && strings.Contains(candidate, ".") {
			continue
		}
		suffixes = append(suffixes, []rune(candidate[len(word):]+" "))
	}
	return suffixes, len([]rune(word))
}
