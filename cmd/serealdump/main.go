// Command serealdump parses a Sereal document and prints its decoded value
// graph, the way sereal-rs's dump/src/main.rs does with clap — reworked
// onto the standard library's flag package, matching mebo's own examples
// (examples/*/main.go), which reach for flag or no argument parsing at all
// rather than a third-party CLI framework.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vickenty/sereal"
)

func main() {
	quiet := flag.Bool("q", false, "do not print the decoded value, just parse the file")
	flag.BoolVar(quiet, "quiet", false, "alias for -q")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] INPUT\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	name := flag.Arg(0)
	if err := process(name, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

func process(name string, quiet bool) error {
	buf, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	value, err := sereal.Decode(buf)
	if err != nil {
		return err
	}

	if !quiet {
		sereal.Dump(os.Stdout, value)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
