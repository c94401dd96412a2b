package shell

import (
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/blockfall/blockhint/config"
	"github.com/blockfall/blockhint/piece"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

var commandNames = []string{
	"help", "load", "show", "s", "piece", "p", "objective", "obj", "garbage",
	"gen", "g", "path", "reach", "stats", "hist", "compare", "exit",
}

var helpTopics = []string{
	"load", "piece", "objective", "garbage", "gen", "path", "reach", "stats",
	"hist", "compare",
}

var objectives = []string{"clear", "build"}

var rotations = []string{"0", "90", "180", "270"}

// levelNames lists the level files in the fields path, without suffix.
func (c *ShellCompleter) levelNames() []string {
	entries, err := os.ReadDir(c.sc.cfg.GetString(config.ConfigFieldsPath))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	return names
}

// argCompletions returns the candidates for argument number argIdx (0-based)
// of cmdName.
func (c *ShellCompleter) argCompletions(cmdName string, argIdx int, lastField string) []string {
	if lastField == "-seed" {
		return nil
	}
	switch cmdName {
	case "load":
		if argIdx == 0 {
			return c.levelNames()
		}
	case "piece", "p":
		switch argIdx {
		case 0:
			return piece.Names()
		case 1:
			return rotations
		}
	case "compare":
		return piece.Names()
	case "objective", "obj":
		if argIdx == 0 {
			return objectives
		}
	case "garbage":
		if argIdx > 0 {
			return []string{"-seed"}
		}
	case "help":
		if argIdx == 0 {
			return helpTopics
		}
	}
	return nil
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		argIdx := len(fields) - 1
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
			argIdx--
		}
		var lastComplete string
		if argIdx > 0 {
			lastComplete = fields[argIdx]
		}
		completions = c.argCompletions(fields[0], argIdx, lastComplete)
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(strings.ToLower(completion), strings.ToLower(prefix)) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
