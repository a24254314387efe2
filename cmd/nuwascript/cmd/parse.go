package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuwa-ai/nuwascript/internal/ast"
	"github.com/nuwa-ai/nuwascript/internal/diag"
	"github.com/nuwa-ai/nuwascript/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a NuwaScript file and print its statement tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		script, err := parser.Parse(string(src))
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), diag.Format(err, string(src), path, useColor()))
			os.Exit(1)
		}
		for _, stmt := range script.Statements {
			printStatement(cmd, stmt, 0)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func indent(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "  "
	}
	return s
}

func printStatement(cmd *cobra.Command, stmt ast.Statement, depth int) {
	out := cmd.OutOrStdout()
	switch s := stmt.(type) {
	case *ast.Let:
		fmt.Fprintf(out, "%sLet %s = %s\n", indent(depth), s.Name, describeExpr(s.Value))
	case *ast.Call:
		fmt.Fprintf(out, "%sCall %s%s\n", indent(depth), s.Name, describeArgs(s.ArgNames, s.ArgExprs))
	case *ast.If:
		fmt.Fprintf(out, "%sIf %s\n", indent(depth), describeExpr(s.Condition))
		for _, st := range s.Then {
			printStatement(cmd, st, depth+1)
		}
		if len(s.Else) > 0 {
			fmt.Fprintf(out, "%sElse\n", indent(depth))
			for _, st := range s.Else {
				printStatement(cmd, st, depth+1)
			}
		}
	case *ast.For:
		fmt.Fprintf(out, "%sFor %s in %s\n", indent(depth), s.Iterator, describeExpr(s.Iterable))
		for _, st := range s.Body {
			printStatement(cmd, st, depth+1)
		}
	case *ast.ExpressionStatement:
		fmt.Fprintf(out, "%sExpr %s\n", indent(depth), describeExpr(s.Expr))
	}
}

func describeArgs(names []string, exprs map[string]ast.Expression) string {
	s := " {"
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n + ": " + describeExpr(exprs[n])
	}
	return s + "}"
}

func describeExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Value.Kind {
		case ast.LiteralNull:
			return "null"
		case ast.LiteralBool:
			return fmt.Sprintf("%v", e.Value.Bool)
		case ast.LiteralNumber:
			return fmt.Sprintf("%v", e.Value.Num)
		case ast.LiteralString:
			return fmt.Sprintf("%q", e.Value.Str)
		}
		return "?"
	case *ast.Variable:
		return e.Name
	case *ast.BinaryOp:
		return fmt.Sprintf("(%s %s %s)", describeExpr(e.Left), e.Op, describeExpr(e.Right))
	case *ast.UnaryOp:
		return fmt.Sprintf("(%s %s)", e.Op, describeExpr(e.Operand))
	case *ast.FunctionCall:
		return fmt.Sprintf("%s(...)", e.Name)
	case *ast.ToolCall:
		return fmt.Sprintf("Call %s%s", e.Name, describeArgs(e.ArgNames, e.ArgExprs))
	case *ast.IndexAccess:
		return fmt.Sprintf("%s[%s]", describeExpr(e.Object), describeExpr(e.Index))
	case *ast.MemberAccess:
		return fmt.Sprintf("%s.%s", describeExpr(e.Object), e.Property)
	case *ast.ListLiteral:
		return "[...]"
	case *ast.ObjectLiteral:
		return "{...}"
	default:
		return "?"
	}
}
