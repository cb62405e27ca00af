package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args, DefaultConfig()); err != nil {
		code := exitError
		if ec, ok := err.(cli.ExitCoder); ok {
			code = ec.ExitCode()
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "pqcbridge: %s\n", msg)
		}
		os.Exit(code)
	}
}
