// Command tcflow translates recorded test-execution event streams into
// TeamCity service messages.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "tcflow",
		Usage: "Translate test-execution event streams into TeamCity service messages",
		Commands: []*cli.Command{
			translateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
