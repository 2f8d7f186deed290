// Command texioctl inspects a texio configuration from the command line:
// it lists format kinds, resolves names and copies inputs to stdout
// through the same path the native engine uses.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
