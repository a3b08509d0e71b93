// Command formulacalc manages spreadsheet-style notes from the terminal.
package main

import "github.com/mesh-intelligence/formulacalc/internal/cli"

func main() {
	cli.Main()
}
