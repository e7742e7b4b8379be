// Command mugobasic plays Dragons of Mugloar with the rule-based
// strategy.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mugloar/mugomatic/internal/cli"
	"github.com/mugloar/mugomatic/internal/strategy"
)

func main() {
	app := cli.NewApp("mugobasic")
	err := app.Run(os.Args[1:], func(worker int, logger *log.Logger) (strategy.Strategy, error) {
		return strategy.NewBasic(), nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
