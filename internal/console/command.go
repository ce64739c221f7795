// Package console implements the line-oriented operator console: digit
// commands select a workload for live echo, r/s prefixes restart and stop,
// ls prints the workload table.
package console

import (
	"strings"

	"github.com/stokerhq/stoker/internal/workload"
)

// Kind is the parsed command's action.
type Kind int

const (
	// None means the line matched nothing and is silently ignored.
	None Kind = iota
	Select
	ClearSelect
	Restart
	RestartAll
	Stop
	StopAll
	List
)

// Command is one parsed console line.
type Command struct {
	Kind Kind
	ID   workload.ID
}

// Parse maps one input line to a command. The grammar is fixed: "ls",
// "ra", "sa", "r<id>", "s<id>", "0" to clear the live selection, a bare
// workload id to select it. Everything else parses to None.
func Parse(line string) Command {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return Command{Kind: None}
	case "ls":
		return Command{Kind: List}
	case "ra":
		return Command{Kind: RestartAll}
	case "sa":
		return Command{Kind: StopAll}
	case "0":
		return Command{Kind: ClearSelect}
	}

	if rest := strings.TrimPrefix(line, "r"); rest != line && workload.Valid(rest) {
		return Command{Kind: Restart, ID: workload.ID(rest)}
	}
	if rest := strings.TrimPrefix(line, "s"); rest != line && workload.Valid(rest) {
		return Command{Kind: Stop, ID: workload.ID(rest)}
	}
	if workload.Valid(line) {
		return Command{Kind: Select, ID: workload.ID(line)}
	}
	return Command{Kind: None}
}
