// Command asyncgui-demo runs a scripted GUI-like scenario on a real-time
// frame clock: timers, a producer and a consumer, background work, a timeout
// and a modal dialog, optionally exposing task metrics to Prometheus.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "asyncgui-demo",
		Usage: "Run a scripted asyncgui scenario",
		Commands: []*cli.Command{
			runCommand(),
			versionCommand(),
		},
		DefaultCommand: "run",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
