package main

import (
	"fmt"
	"os"

	"github.com/CXPhoenix/ResQrypt/internal/cli"
	"github.com/CXPhoenix/ResQrypt/internal/resqerr"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	err := cli.NewRootCommand(version, buildTime, gitCommit).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(resqerr.ExitCode(err))
}
