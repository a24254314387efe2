package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuwa-ai/nuwascript/internal/diag"
	"github.com/nuwa-ai/nuwascript/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize a NuwaScript file and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		toks, err := lexer.All(string(src))
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), diag.Format(err, string(src), path, useColor()))
			os.Exit(1)
		}
		for _, tok := range toks {
			fmt.Fprintf(cmd.OutOrStdout(), "%4d:%-4d %-10s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok.Literal)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}
