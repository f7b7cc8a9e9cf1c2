// The main package for the jobsync executable.
package main

import (
	"github.com/tobyns/jobsync/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
