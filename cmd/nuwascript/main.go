// Command nuwascript is the reference CLI for lexing, parsing, running,
// and interactively exploring NuwaScript programs.
package main

import "github.com/nuwa-ai/nuwascript/cmd/nuwascript/cmd"

func main() {
	cmd.Execute()
}
