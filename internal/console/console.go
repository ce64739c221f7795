package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/stokerhq/stoker/internal/logbook"
	"github.com/stokerhq/stoker/internal/supervisor"
	"github.com/stokerhq/stoker/internal/ui"
)

// Console reads operator commands line by line and drives the supervisor.
type Console struct {
	sup *supervisor.Supervisor
	in  io.Reader
	out io.Writer
}

// New wires a console to a supervisor.
func New(sup *supervisor.Supervisor, in io.Reader, out io.Writer) *Console {
	return &Console{sup: sup, in: in, out: out}
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Run prints the command legend and dispatches input lines until in is
// exhausted. Unrecognized lines are ignored without comment.
func (c *Console) Run() error {
	c.printf("%s", ui.RenderHeader("stoker console"))
	c.printf("  <id>  echo workload output   0   echo off")
	c.printf("  r<id> restart workload       ra  restart all")
	c.printf("  s<id> stop workload          sa  stop all")
	c.printf("  ls    list workloads")

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.dispatch(Parse(scanner.Text()))
	}
	return scanner.Err()
}

func (c *Console) dispatch(cmd Command) {
	switch cmd.Kind {
	case Select:
		c.sup.Selector().Select(cmd.ID)
		c.printf("echoing workload %s (0 to stop)", cmd.ID)
	case ClearSelect:
		c.sup.Selector().Clear()
		c.printf("echo off")
	case Restart:
		c.sup.Restart(cmd.ID)
	case RestartAll:
		c.sup.RestartAll()
	case Stop:
		c.sup.Stop(cmd.ID)
	case StopAll:
		c.sup.StopAll()
	case List:
		c.printTable()
	}
}

// printTable renders the workload overview: id, state, pid and uptime per
// row. Columns are padded before styling so colors never skew alignment.
func (c *Console) printTable() {
	rows := c.sup.Overview()
	if len(rows) == 0 {
		c.printf("%s", ui.RenderMuted("no workloads"))
		return
	}

	c.printf("%s", ui.RenderHeader(fmt.Sprintf("%-6s %-8s %-7s %s", "ID", "STATE", "PID", "UPTIME")))
	for _, row := range rows {
		state, pid, uptime := ui.RenderStopped(fmt.Sprintf("%-8s", "STOPPED")), "-", "-"
		if row.Running {
			state = ui.RenderRunning(fmt.Sprintf("%-8s", "RUNNING"))
			pid = strconv.Itoa(row.PID)
			uptime = logbook.FormatUptime(row.Uptime())
		}
		c.printf("%-6s %s %-7s %s", string(row.ID), state, pid, uptime)
	}
}
