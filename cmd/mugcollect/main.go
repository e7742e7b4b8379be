// Command mugcollect plays with a uniformly random strategy to generate
// unbiased training logs for muglearn.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mugloar/mugomatic/internal/cli"
	"github.com/mugloar/mugomatic/internal/strategy"
)

func main() {
	app := cli.NewApp("mugcollect")
	seed := time.Now().UnixNano()
	err := app.Run(os.Args[1:], func(worker int, logger *log.Logger) (strategy.Strategy, error) {
		return strategy.NewRandom(seed + int64(worker)), nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
