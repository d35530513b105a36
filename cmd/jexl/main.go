// Command jexl is the engine's CLI (SPEC_FULL.md §B/§C): evaluate a single
// expression, check a script for parse errors, or drop into an interactive
// REPL — the same three-mode shape funxy's cmd/funxy/main.go offers for
// its own language, rebuilt here on cobra the way the rest of the pack's
// CLIs (CWBudde-go-dws, conneroisu-gix) do it instead of funxy's hand
// rolled flag parsing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jexlang/jexl/pkg/jexl"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var strict, silent, safe bool

	root := &cobra.Command{
		Use:           "jexl",
		Short:         "evaluate and inspect JEXL expressions and scripts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVar(&strict, "strict", false, "raise on null operands and failed coercions")
	root.PersistentFlags().BoolVar(&silent, "silent", false, "suppress errors, evaluating to null instead")
	root.PersistentFlags().BoolVar(&safe, "safe", false, "treat every null dereference as null rather than raising")

	engineOpts := func() jexl.Options {
		o := jexl.DefaultOptions()
		o.Strict = strict
		o.Silent = silent
		o.Safe = safe
		return o
	}

	root.AddCommand(newEvalCmd(engineOpts), newCheckCmd(engineOpts), newReplCmd(engineOpts))
	return root
}

func newEvalCmd(engineOpts func() jexl.Options) *cobra.Command {
	var vars []string
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "evaluate a single expression and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := jexl.NewEngine(jexl.WithOptions(engineOpts()))
			expr, err := engine.CreateExpression(args[0])
			if err != nil {
				return err
			}
			ctx := engine.NewContext(parseVarAssignments(vars))
			v, err := expr.Evaluate(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			fmt.Println(v.String())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&vars, "var", "v", nil, "name=value context variable (repeatable)")
	return cmd
}

func newCheckCmd(engineOpts func() jexl.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <script-file>",
		Short: "parse a script file and report errors without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			engine := jexl.NewEngine(jexl.WithOptions(engineOpts()))
			script, err := engine.CreateScript(string(src))
			if err != nil {
				return err
			}
			fmt.Printf("ok: %d free variable(s): %v\n", len(script.GetVariables()), script.GetVariables())
			return nil
		},
	}
}

func newReplCmd(engineOpts func() jexl.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive read-eval-print loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := jexl.NewEngine(jexl.WithOptions(engineOpts()))
			return runREPL(engine)
		},
	}
}

