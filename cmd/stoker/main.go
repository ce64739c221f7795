// stoker supervises long-running workload processes.
package main

import (
	"os"

	"github.com/stokerhq/stoker/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
