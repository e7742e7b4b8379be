// Command muglearn derives a cost table from event logs written by
// mugcollect or the players. Reads the files given as arguments, or
// standard input with none; writes the table to -o or standard output.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mugloar/mugomatic/internal/learn"
)

func main() {
	fs := flag.NewFlagSet("muglearn", flag.ExitOnError)
	out := fs.String("o", "", "write the cost table to this file instead of stdout")
	fs.Parse(os.Args[1:])

	if err := run(fs.Args(), *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inputs []string, out string) error {
	m := learn.New()
	if len(inputs) == 0 {
		if err := m.Consume(os.Stdin); err != nil {
			return err
		}
	}
	for _, path := range inputs {
		if err := m.ConsumeFile(path); err != nil {
			return err
		}
	}
	if m.Rows() == 0 {
		return fmt.Errorf("no events to learn from")
	}

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := m.WriteTable(w); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "learned from %d events\n", m.Rows())
	return nil
}
