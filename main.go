package main

import "github.com/revulabs/revu-cli/cmd"

// execCmd is indirected so tests can stub the CLI entry point.
var execCmd = cmd.Execute

func main() {
	execCmd()
}
