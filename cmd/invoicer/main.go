// Command invoicer generates PDF invoices for Garage marketplace listings.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "invoicer",
		Usage:   "Generate PDF invoices for Garage listings",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, gitCommit, buildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
				EnvVars: []string{"INVOICE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			previewCommand(),
			inspectCommand(),
			serveCommand(),
		},
	}
}
