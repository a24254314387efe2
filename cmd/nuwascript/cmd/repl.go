package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/nuwa-ai/nuwascript/internal/diag"
	"github.com/nuwa-ai/nuwascript/pkg/nuwascript"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively evaluate NuwaScript statements against a persistent scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:      "nuwa> ",
			HistoryFile: "",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		rt := newDemoRuntime()
		scope := map[string]nuwascript.Value{}

		fmt.Fprintln(cmd.OutOrStdout(), "NuwaScript REPL. Ctrl-D to exit.")
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			newScope, execErr := rt.Execute(context.Background(), line, scope)
			if execErr != nil {
				fmt.Fprintln(cmd.OutOrStdout(), diag.Format(execErr, line, "", useColor()))
				continue
			}
			scope = newScope
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
