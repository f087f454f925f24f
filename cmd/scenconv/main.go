// scenconv converts a text battle scenario to the YAML scenario format.
package main

import (
	"fmt"
	"os"

	"github.com/swbattle/server/internal/command"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: scenconv <scenario.txt> <output.yaml>")
		os.Exit(1)
	}

	inFile, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer inFile.Close()

	cmds, err := command.Parse(inFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	sc, err := command.ToScenario(cmds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	out, err := os.Create(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "# Battle scenario, converted from %s\n", os.Args[1])
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d units and %d marches to %s\n", len(sc.Units), len(sc.Marches), os.Args[2])
}
