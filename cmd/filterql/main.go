// Command filterql compiles filter DSL documents into parameterized SQL.
package main

import (
	"os"

	"github.com/roach88/filterql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		cli.ReportUnhandled(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
