// Command ferrovm is the CLI entry point: assemble, run, or drop into
// the interactive shell.
package main

import "ferrovm/cmd/ferrovm/cmd"

func main() {
	cmd.Execute()
}
