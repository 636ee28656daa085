package main

import (
	"github.com/portablesource/portablesource/pkg/cli"
	"github.com/portablesource/portablesource/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
