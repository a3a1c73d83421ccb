// The main package for the robotsmap executable.
package main

import (
	"os"

	"github.com/JakeFAU/robotsmap/cmd"
)

// main defers all execution to the cobra CLI.
func main() {
	os.Exit(cmd.Execute())
}
