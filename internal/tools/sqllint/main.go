// Command sqllint checks that every inline SQL statement starts with a
// unique --sql <uuid> audit marker.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"internal/sqlinline"}
	}

	l := newLinter()
	for _, target := range targets {
		if err := l.lintPath(target); err != nil {
			fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
			os.Exit(1)
		}
	}

	if len(l.violations) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: SQL audit marker violations")
		for _, v := range l.violations {
			fmt.Fprintf(os.Stderr, "  %s:%d %s (%s)\n", v.file, v.line, v.message, v.name)
		}
		os.Exit(1)
	}
}
