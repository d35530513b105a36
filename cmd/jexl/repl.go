package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/jexlang/jexl/pkg/jexl"
)

// runREPL is an interactive loop over Engine.CreateExpression, coloring
// its prompt and error prefix (results print uncolored) only when stdout
// is a real terminal — the same
// isatty gate funxy's builtins_term.go applies before emitting ANSI color
// codes from its own CLI/REPL.
func runREPL(engine *jexl.Engine) error {
	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	prompt := "jexl> "
	errPrefix := "error: "
	if color {
		prompt = "\x1b[36mjexl>\x1b[0m "
		errPrefix = "\x1b[31merror:\x1b[0m "
	}

	ctx := engine.NewContext(nil)
	sc := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, prompt)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			fmt.Fprint(os.Stdout, prompt)
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		expr, err := engine.CreateExpression(line)
		if err != nil {
			fmt.Fprintln(os.Stdout, errPrefix+err.Error())
			fmt.Fprint(os.Stdout, prompt)
			continue
		}
		v, err := expr.Evaluate(context.Background(), ctx)
		if err != nil {
			fmt.Fprintln(os.Stdout, errPrefix+err.Error())
		} else {
			fmt.Fprintln(os.Stdout, v.String())
		}
		fmt.Fprint(os.Stdout, prompt)
	}
	fmt.Fprintln(os.Stdout)
	return sc.Err()
}
