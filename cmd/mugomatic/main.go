// Command mugomatic plays Dragons of Mugloar with a learned cost table,
// a user-supplied JavaScript strategy, or the rule-based fallback.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mugloar/mugomatic/internal/cli"
	"github.com/mugloar/mugomatic/internal/strategy"
)

func main() {
	app := cli.NewApp("mugomatic")
	var (
		costPath   string
		scriptPath string
	)
	app.FlagSet().StringVar(&costPath, "i", "", "cost table produced by muglearn")
	app.FlagSet().StringVar(&scriptPath, "script", "", "JavaScript strategy file defining pickAction")

	var (
		table      strategy.CostTable
		scriptSrc  string
	)
	factory := func(worker int, logger *log.Logger) (strategy.Strategy, error) {
		switch {
		case scriptPath != "":
			if scriptSrc == "" {
				data, err := os.ReadFile(scriptPath)
				if err != nil {
					return nil, err
				}
				scriptSrc = string(data)
			}
			return strategy.NewScript(scriptSrc, logger)
		case costPath != "":
			if table == nil {
				var err error
				if table, err = strategy.LoadCostTableFile(costPath); err != nil {
					return nil, err
				}
			}
			return strategy.NewCost(table, logger), nil
		default:
			return strategy.NewBasic(), nil
		}
	}

	if err := app.Run(os.Args[1:], factory); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
