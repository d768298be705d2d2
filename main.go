// main.go
//
// Entry point for the headless circuit driver; CLI handling lives in cmd/.

package main

import (
	"github.com/circuit-sim/circuit-sim/cmd"
)

func main() {
	cmd.Execute()
}
