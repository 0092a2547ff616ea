// Command bindctl inspects and edits the persisted key bindings and
// settings without starting the menus.
package main

import (
	"fmt"
	"os"

	"github.com/llehouerou/rebind/internal/state"
)

func main() {
	open := func(path string) (state.Interface, error) {
		if path == "" {
			return state.Open()
		}
		return state.OpenPath(path)
	}
	if err := newRootCmd(open, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
